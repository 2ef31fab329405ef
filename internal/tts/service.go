package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

const cacheTTL = time.Hour

// Service synthesizes speech, deduplicating concurrent identical requests
// and caching rendered audio for a short while.
type Service struct {
	synth  Synthesizer
	cache  *redis.Client
	group  singleflight.Group
	logger *slog.Logger
}

// NewService constructs a Service. cache may be nil to disable caching.
func NewService(synth Synthesizer, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{synth: synth, cache: cache, logger: logger}
}

// Speak returns MP3 audio for the text. The text is sanitized first; a text
// that is empty after sanitizing is a validation error. lang defaults to
// Urdu and must be a well-formed BCP 47 tag.
func (s *Service) Speak(ctx context.Context, text, lang string) ([]byte, error) {
	text = Sanitize(text)
	if text == "" {
		return nil, fmt.Errorf("%w: nothing to speak", httpx.ErrValidation)
	}

	if lang == "" {
		lang = "ur"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown language %q", httpx.ErrValidation, lang)
	}
	lang = tag.String()

	key := cacheKey(text, lang)
	if s.cache != nil {
		if audio, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			return audio, nil
		}
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		audio, err := s.synth.Synthesize(ctx, text, lang)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, audio, cacheTTL).Err(); err != nil {
				s.logger.Warn("tts cache write failed", slog.Any("error", err))
			}
		}
		return audio, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrUpstream, err)
	}
	return result.([]byte), nil
}

func cacheKey(text, lang string) string {
	sum := sha256.Sum256([]byte(lang + "\x00" + text))
	return "tts:audio:" + hex.EncodeToString(sum[:])
}
