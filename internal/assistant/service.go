package assistant

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/eventease/campus-backend/internal/monitoring"
)

const (
	KindDescription  = "description"
	KindPosterPrompt = "poster_prompt"
	KindEmail        = "email"
)

// messages surfaced to callers when a generator fails
const (
	errDescription  = "Failed to generate description"
	errPosterPrompt = "Failed to generate poster prompt"
	errEmail        = "Failed to generate email"
)

// Result is what callers see. On failure Text is empty and Error holds a
// generic message; the underlying error is only logged.
type Result struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func (r Result) Failed() bool { return r.Error != "" }

type Service struct {
	gen     Generator
	monitor *monitoring.Monitor
	logger  zerolog.Logger
}

func NewService(gen Generator, monitor *monitoring.Monitor, logger zerolog.Logger) *Service {
	if gen == nil {
		gen = MockGenerator{}
	}
	return &Service{gen: gen, monitor: monitor, logger: logger.With().Str("component", "assistant").Logger()}
}

func (s *Service) GenerateDescription(ctx context.Context, title, category string) Result {
	text, err := s.gen.Description(ctx, title, category)
	return s.result(KindDescription, text, err, errDescription)
}

func (s *Service) GeneratePosterPrompt(ctx context.Context, title, category string) Result {
	text, err := s.gen.PosterPrompt(ctx, title, category)
	return s.result(KindPosterPrompt, text, err, errPosterPrompt)
}

func (s *Service) GenerateEmailTemplate(ctx context.Context, title, date, location string) Result {
	text, err := s.gen.EmailTemplate(ctx, title, date, location)
	return s.result(KindEmail, text, err, errEmail)
}

// WriteDescription adapts GenerateDescription for callers that want an error.
func (s *Service) WriteDescription(ctx context.Context, title, category string) (string, error) {
	r := s.GenerateDescription(ctx, title, category)
	if r.Failed() {
		return "", errors.New(r.Error)
	}
	return r.Text, nil
}

func (s *Service) result(kind, text string, err error, message string) Result {
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", kind).Msg("generation failed")
		s.monitor.TrackGeneration(kind, "failure")
		return Result{Kind: kind, Error: message}
	}
	s.monitor.TrackGeneration(kind, "success")
	return Result{Kind: kind, Text: text}
}
