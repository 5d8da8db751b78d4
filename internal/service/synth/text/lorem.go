package text

import (
	"context"
	"strings"

	loremgen "github.com/bozaro/golorem"

	"prospekt/internal/config"
	"prospekt/internal/domain/services"
)

// LoremProvider generates placeholder copy without any API key. Used in
// development and tests; selected when no Anthropic key is configured
// and the environment is not prod.
type LoremProvider struct {
	generator *loremgen.Lorem
}

// NewLoremProvider creates a new lorem copy provider.
func NewLoremProvider() *LoremProvider {
	return &LoremProvider{generator: loremgen.New()}
}

func (p *LoremProvider) Name() string { return "lorem" }

// GenerateCopy produces filler copy anchored on the extracted resort
// name so previews still look plausible.
func (p *LoremProvider) GenerateCopy(_ context.Context, req *services.CopyRequest) (*services.CopyBundle, error) {
	amenities := make([]string, 0, config.MinAmenities)
	for i := 0; i < config.MinAmenities; i++ {
		amenities = append(amenities, p.label())
	}

	return normalizeBundle(&services.CopyBundle{
		Headline:    req.Info.ResortName + " - " + p.label(),
		Description: p.generator.Sentence(6, 10) + " " + p.generator.Sentence(6, 10),
		Amenities:   amenities,
	})
}

// RewriteDescription returns fresh filler sentences.
func (p *LoremProvider) RewriteDescription(_ context.Context, _, _ string, _ services.PromptInfo) (string, error) {
	return p.generator.Sentence(6, 10) + " " + p.generator.Sentence(6, 10), nil
}

// label builds a capitalized two-word phrase.
func (p *LoremProvider) label() string {
	words := []string{p.generator.Word(4, 8), p.generator.Word(4, 8)}
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
