package image

import (
	"context"
	"log/slog"

	"prospekt/internal/domain/services"
)

// Synthesizer produces hero image bytes, substituting the tinted
// placeholder whenever the provider is missing or fails. The caller
// always gets an image; a hard error here means even the placeholder
// could not be drawn.
type Synthesizer struct {
	provider    services.ImageProvider
	placeholder *Placeholder
	tintFor     func(preset string) string
	logger      *slog.Logger
}

// NewSynthesizer creates an image synthesizer. provider may be nil;
// tintFor maps a preset key to its placeholder tint.
func NewSynthesizer(provider services.ImageProvider, placeholder *Placeholder, tintFor func(string) string, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		provider:    provider,
		placeholder: placeholder,
		tintFor:     tintFor,
		logger:      logger,
	}
}

// Synthesize generates the hero image for req.
func (s *Synthesizer) Synthesize(ctx context.Context, req *services.ImageRequest) ([]byte, error) {
	if s.provider != nil {
		data, err := s.provider.Generate(ctx, req)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("image provider unavailable, using placeholder",
			"provider", s.provider.Name(),
			"error", err,
		)
	}
	return s.placeholder.Render(s.tintFor(req.Preset), req.NameOnText)
}
