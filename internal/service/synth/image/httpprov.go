// Package image produces hero imagery for brochures: a remote
// generation provider when one is configured, and a deterministic
// tinted placeholder when generation is unavailable or fails.
package image

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"prospekt/internal/domain"
	"prospekt/internal/domain/services"
)

// HeroWidth and HeroHeight are the canvas dimensions every hero image
// is generated at, matching the brochure page aspect.
const (
	HeroWidth  = 1080
	HeroHeight = 1350
)

// basePrompt constrains the generator toward consistent brochure
// heroes regardless of what the user typed.
const basePrompt = "Luxury resort photography, exterior beachfront view, realistic, " +
	"editorial travel magazine style, soft natural daylight, refined " +
	"tropical architecture, ocean and sky visible, palm trees, " +
	"infinity pool or lagoon, wide-angle composition"

const negativePrompt = "interior, bedroom, ceiling, roof beams, people, text, words, letters, " +
	"typography, logo, watermark, caption, signage, poster, brochure, flyer, " +
	"illustration, cartoon, CGI, 3d, low quality, blurry"

// HTTPProvider calls a JSON image-generation endpoint and expects raw
// image bytes back.
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPProvider creates a provider for endpoint. The timeout bounds
// the full request; image backends are slow, so callers pass something
// generous.
func NewHTTPProvider(endpoint, apiKey string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) Name() string { return "http" }

type generatePayload struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Steps          int     `json:"num_inference_steps"`
	GuidanceScale  float64 `json:"guidance_scale"`
}

// Generate requests one hero image. Non-image responses and non-200
// statuses are provider errors; 429 and 5xx are transient.
func (p *HTTPProvider) Generate(ctx context.Context, req *services.ImageRequest) ([]byte, error) {
	payload := generatePayload{
		Prompt:         buildVisualPrompt(req),
		NegativePrompt: negativePrompt,
		Width:          HeroWidth,
		Height:         HeroHeight,
		Steps:          30,
		GuidanceScale:  7.0,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal image request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &domain.ProviderError{Provider: p.Name(), Transient: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, &domain.ProviderError{
			Provider:  p.Name(),
			Transient: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			Err:       fmt.Errorf("image endpoint status %d: %s", resp.StatusCode, snippet),
		}
	}
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "application/json") {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, &domain.ProviderError{
			Provider: p.Name(),
			Err:      fmt.Errorf("image endpoint returned JSON instead of image: %s", snippet),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, &domain.ProviderError{Provider: p.Name(), Transient: true, Err: err}
	}
	if len(data) == 0 {
		return nil, &domain.ProviderError{Provider: p.Name(), Err: fmt.Errorf("image endpoint returned empty body")}
	}
	return data, nil
}

func buildVisualPrompt(req *services.ImageRequest) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	if req.StyleHint != "" {
		b.WriteString(". Style: ")
		b.WriteString(req.StyleHint)
	}
	if req.Info.ResortName != "" {
		b.WriteString(". Hotel: ")
		b.WriteString(req.Info.ResortName)
	}
	if req.Info.Location != "" {
		b.WriteString(". Location: ")
		b.WriteString(req.Info.Location)
	}
	b.WriteString(". Prompt: ")
	b.WriteString(req.Prompt)
	return b.String()
}
