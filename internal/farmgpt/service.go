package farmgpt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

// Service answers farming questions in the asker's language, carrying a short
// per-user conversation history across requests.
type Service struct {
	generator Generator
	history   *History
	logger    *slog.Logger
}

// NewService constructs a Service. history may be nil to disable context
// replay.
func NewService(generator Generator, history *History, logger *slog.Logger) *Service {
	return &Service{generator: generator, history: history, logger: logger}
}

// Ask answers a question. The language of the question picks the system
// prompt and the fallback answer; upstream failures surface as ErrUpstream.
func (s *Service) Ask(ctx context.Context, userID int64, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, fmt.Errorf("%w: question is required", httpx.ErrValidation)
	}

	urdu := IsUrdu(question)
	systemPrompt := systemPromptEnglish
	language := "en"
	if urdu {
		systemPrompt = systemPromptUrdu
		language = "ur"
	}

	var history []Exchange
	if s.history != nil {
		recent, err := s.history.Recent(ctx, userID)
		if err != nil {
			s.logger.Warn("farmgpt history unavailable", slog.Any("error", err))
		} else {
			history = recent
		}
	}

	answer, err := s.generator.Generate(ctx, systemPrompt, question, history)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: %v", httpx.ErrUpstream, err)
	}
	if answer == "" {
		if urdu {
			answer = fallbackAnswerUrdu
		} else {
			answer = fallbackAnswerEnglish
		}
	}

	if s.history != nil {
		ex := Exchange{Question: question, Answer: answer, AskedAt: time.Now()}
		if err := s.history.Append(ctx, userID, ex); err != nil {
			s.logger.Warn("farmgpt history not saved", slog.Any("error", err))
		}
	}

	return Answer{Text: answer, Language: language}, nil
}
