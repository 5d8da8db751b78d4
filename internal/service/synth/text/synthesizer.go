package text

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"prospekt/internal/config"
	"prospekt/internal/domain"
	"prospekt/internal/domain/services"
)

const (
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// Synthesizer layers override handling, bounded retry, and the
// deterministic template fallback over a single text provider.
// Generation never hard-fails because the provider is down.
type Synthesizer struct {
	provider services.TextProvider
	logger   *slog.Logger
}

// NewSynthesizer creates a text synthesizer around provider. A nil
// provider is valid and routes everything to the local fallback.
func NewSynthesizer(provider services.TextProvider, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{provider: provider, logger: logger}
}

// Synthesize produces the brochure copy for a prompt. Well-formed
// override fields are used verbatim and skip generation for those
// fields entirely.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string, info services.PromptInfo, tone string) (*services.CopyBundle, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is empty", domain.ErrValidation)
	}

	if bundle := overrideBundle(info); bundle != nil {
		return bundle, nil
	}

	bundle, err := s.generateWithRetry(ctx, &services.CopyRequest{Prompt: prompt, Info: info, Tone: tone})
	if err == nil {
		return s.mergeOverrides(bundle, info), nil
	}

	s.logger.Warn("text provider unavailable, using template fallback",
		"provider", s.providerName(),
		"error", err,
	)
	return s.mergeOverrides(FallbackCopy(prompt, info), info), nil
}

// RewriteDescription rewrites only the description, falling back to the
// deterministic bank on provider failure.
func (s *Synthesizer) RewriteDescription(ctx context.Context, current, tone string, info services.PromptInfo) (string, error) {
	if s.provider != nil {
		rewritten, err := s.provider.RewriteDescription(ctx, current, tone, info)
		if err == nil && strings.TrimSpace(rewritten) != "" {
			return normalizeDescription(rewritten), nil
		}
		if err != nil {
			s.logger.Warn("description rewrite fell back", "provider", s.providerName(), "error", err)
		}
	}
	return FallbackDescription(current, tone, info), nil
}

// generateWithRetry retries transient provider errors a bounded number
// of times with linear backoff. Non-transient errors surface at once.
func (s *Synthesizer) generateWithRetry(ctx context.Context, req *services.CopyRequest) (*services.CopyBundle, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no text provider configured")
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		bundle, err := s.provider.GenerateCopy(ctx, req)
		if err == nil {
			return bundle, nil
		}
		lastErr = err

		if !domain.IsTransient(err) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return nil, lastErr
}

// overrideBundle returns a complete bundle when every field has a
// well-formed override, making generation unnecessary.
func overrideBundle(info services.PromptInfo) *services.CopyBundle {
	if info.HeadlineOverride == "" || info.DescriptionOverride == "" {
		return nil
	}
	if len(info.AmenitiesOverride) < config.MinAmenities || len(info.AmenitiesOverride) > config.MaxAmenities {
		return nil
	}
	return &services.CopyBundle{
		Headline:    normalizeHeadline(info.HeadlineOverride),
		Description: normalizeDescription(info.DescriptionOverride),
		Amenities:   normalizeAmenities(info.AmenitiesOverride),
	}
}

// mergeOverrides lays individually well-formed overrides over generated
// copy: an override always wins for its own field.
func (s *Synthesizer) mergeOverrides(bundle *services.CopyBundle, info services.PromptInfo) *services.CopyBundle {
	out := *bundle
	if info.HeadlineOverride != "" {
		out.Headline = normalizeHeadline(info.HeadlineOverride)
	}
	if info.DescriptionOverride != "" {
		out.Description = normalizeDescription(info.DescriptionOverride)
	}
	if n := len(info.AmenitiesOverride); n >= config.MinAmenities && n <= config.MaxAmenities {
		out.Amenities = normalizeAmenities(info.AmenitiesOverride)
	}
	return &out
}

func (s *Synthesizer) providerName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.Name()
}
