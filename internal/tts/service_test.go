package tts

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

type stubSynth struct {
	calls   atomic.Int64
	audio   []byte
	err     error
	gotLang string
}

func (s *stubSynth) Synthesize(_ context.Context, _, lang string) ([]byte, error) {
	s.calls.Add(1)
	s.gotLang = lang
	return s.audio, s.err
}

func testCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSanitizeKeepsSpeakableText(t *testing.T) {
	assert.Equal(t, "گندم کی قیمت کیا ہے؟", Sanitize("گندم کی قیمت کیا ہے؟ 🌾"))
	assert.Equal(t, "Hello, world!", Sanitize("Hello, world! @#$%^&*()"))
	assert.Equal(t, "", Sanitize("🌾🚜💧"))
}

func TestSpeakRejectsEmptyAfterSanitizing(t *testing.T) {
	svc := NewService(&stubSynth{}, nil, slog.Default())

	_, err := svc.Speak(context.Background(), "🌾🚜", "ur")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSpeakDefaultsToUrdu(t *testing.T) {
	synth := &stubSynth{audio: []byte("mp3")}
	svc := NewService(synth, nil, slog.Default())

	audio, err := svc.Speak(context.Background(), "hello", "")
	require.NoError(t, err)

	assert.Equal(t, []byte("mp3"), audio)
	assert.Equal(t, "ur", synth.gotLang)
}

func TestSpeakRejectsMalformedLanguage(t *testing.T) {
	svc := NewService(&stubSynth{audio: []byte("mp3")}, nil, slog.Default())

	_, err := svc.Speak(context.Background(), "hello", "not a tag")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestSpeakServesRepeatsFromCache(t *testing.T) {
	synth := &stubSynth{audio: []byte("mp3")}
	svc := NewService(synth, testCache(t), slog.Default())

	for i := 0; i < 3; i++ {
		audio, err := svc.Speak(context.Background(), "hello", "en")
		require.NoError(t, err)
		assert.Equal(t, []byte("mp3"), audio)
	}
	assert.Equal(t, int64(1), synth.calls.Load())
}

func TestSpeakWrapsUpstreamFailure(t *testing.T) {
	synth := &stubSynth{err: errors.New("blocked")}
	svc := NewService(synth, nil, slog.Default())

	_, err := svc.Speak(context.Background(), "hello", "en")
	assert.ErrorIs(t, err, httpx.ErrUpstream)
}
