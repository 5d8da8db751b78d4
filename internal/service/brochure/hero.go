package brochure

import (
	"context"
	"strings"

	"prospekt/internal/domain/models"
	"prospekt/internal/domain/services"
	"prospekt/internal/preset"
	"prospekt/internal/service/assets"
)

// HeroRegenerator re-runs AI hero synthesis for an existing brochure
// when a refinement asks for it. The original prompt is re-used with
// the instruction's style modifier appended, and the stored hero moves
// back to ai source.
type HeroRegenerator struct {
	image   services.ImageSynthesizer
	assets  *assets.Manager
	presets *preset.Catalog
}

// NewHeroRegenerator creates a hero regenerator.
func NewHeroRegenerator(image services.ImageSynthesizer, assetMgr *assets.Manager, presets *preset.Catalog) *HeroRegenerator {
	return &HeroRegenerator{image: image, assets: assetMgr, presets: presets}
}

// Regenerate synthesizes a fresh hero for the schema and stores it.
func (h *HeroRegenerator) Regenerate(ctx context.Context, brochureID string, schema *models.Schema, modifier string) error {
	style := h.presets.Get(schema.Meta.Preset)

	prompt := schema.Meta.Prompt
	if m := strings.TrimSpace(modifier); m != "" {
		prompt = prompt + ", " + m
	}

	data, err := h.image.Synthesize(ctx, &services.ImageRequest{
		Prompt: prompt,
		Info: services.PromptInfo{
			ResortName: schema.Meta.ResortName,
			Location:   schema.Meta.Location,
		},
		Preset:     schema.Meta.Preset,
		StyleHint:  style.ImageStyle,
		NameOnText: schema.Meta.ResortName,
	})
	if err != nil {
		return err
	}
	return h.assets.StoreGeneratedHero(ctx, brochureID, schema, data)
}
