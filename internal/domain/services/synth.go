package services

import "context"

// PromptInfo is what the synthesizers extract from the free-text prompt:
// resort name, location, and any explicit override fields supplied via
// structured markers ("headline:", "description:", "amenities:").
type PromptInfo struct {
	ResortName string
	Location   string
	Keywords   []string

	HeadlineOverride    string
	DescriptionOverride string
	AmenitiesOverride   []string
}

// CopyBundle is the generated brochure copy.
type CopyBundle struct {
	Headline    string
	Description string
	Amenities   []string
}

// CopyRequest asks a text provider for brochure copy.
type CopyRequest struct {
	Prompt string
	Info   PromptInfo
	Tone   string
}

// TextProvider is one copy-generation backend. Implementations must not
// fall back internally; the synthesizer owns retry and fallback policy.
type TextProvider interface {
	Name() string
	GenerateCopy(ctx context.Context, req *CopyRequest) (*CopyBundle, error)
	RewriteDescription(ctx context.Context, current, tone string, info PromptInfo) (string, error)
}

// TextSynthesizer produces brochure copy, honoring overrides and never
// hard-failing on provider errors: a deterministic local template fills
// in when the provider chain is exhausted.
type TextSynthesizer interface {
	Synthesize(ctx context.Context, prompt string, info PromptInfo, tone string) (*CopyBundle, error)
	RewriteDescription(ctx context.Context, current, tone string, info PromptInfo) (string, error)
}

// ImageRequest asks an image provider for a hero image.
type ImageRequest struct {
	Prompt     string
	Info       PromptInfo
	Preset     string // preset key, selects placeholder tint
	StyleHint  string // preset image conditioning
	NameOnText string // resort name, for placeholder captioning
}

// ImageProvider is one image-generation backend.
type ImageProvider interface {
	Name() string
	Generate(ctx context.Context, req *ImageRequest) ([]byte, error)
}

// ImageSynthesizer produces hero image bytes, substituting a
// preset-appropriate placeholder when the provider chain fails.
type ImageSynthesizer interface {
	Synthesize(ctx context.Context, req *ImageRequest) ([]byte, error)
}
