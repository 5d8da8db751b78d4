package text

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"prospekt/internal/domain"
	"prospekt/internal/domain/services"
)

const copySystemPrompt = "You are a luxury hotel copywriter. Return ONLY valid JSON with keys: " +
	"headline, description, amenities."

// AnthropicProvider generates brochure copy through the Anthropic API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider creates the provider with the given API key and
// model.
func NewAnthropicProvider(apiKey, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

// GenerateCopy asks the model for structured brochure copy and
// normalizes its output.
func (p *AnthropicProvider) GenerateCopy(ctx context.Context, req *services.CopyRequest) (*services.CopyBundle, error) {
	tone := req.Tone
	if tone == "" {
		tone = "calm editorial"
	}

	user := fmt.Sprintf(
		"Rules:\n"+
			"- headline: short, premium, 6-12 words\n"+
			"- description: 2 short sentences, %s tone\n"+
			"- amenities: array of 4-6 items, each 2-5 words\n"+
			"- include user-requested features if mentioned\n"+
			"Hotel name: %s\nLocation: %s\nUser prompt: %s\nReturn JSON only.",
		tone, req.Info.ResortName, req.Info.Location, req.Prompt,
	)

	raw, err := p.complete(ctx, copySystemPrompt, user)
	if err != nil {
		return nil, err
	}

	parsed := extractJSON(raw)
	if !parsed.Exists() {
		return nil, &domain.ProviderError{Provider: p.Name(), Err: fmt.Errorf("no JSON object in model output")}
	}

	var amenities []string
	parsed.Get("amenities").ForEach(func(_, v gjson.Result) bool {
		amenities = append(amenities, v.String())
		return true
	})

	bundle, err := normalizeBundle(&services.CopyBundle{
		Headline:    parsed.Get("headline").String(),
		Description: parsed.Get("description").String(),
		Amenities:   amenities,
	})
	if err != nil {
		return nil, &domain.ProviderError{Provider: p.Name(), Err: err}
	}
	return bundle, nil
}

// RewriteDescription rewrites the current description in the requested
// tone without touching any other copy.
func (p *AnthropicProvider) RewriteDescription(ctx context.Context, current, tone string, info services.PromptInfo) (string, error) {
	user := fmt.Sprintf(
		"Rewrite this hotel description in a %s tone. Keep it to 2 short sentences. "+
			"Return ONLY valid JSON with a single key: description.\n"+
			"Hotel: %s\nLocation: %s\nCurrent description: %s",
		tone, info.ResortName, info.Location, current,
	)

	raw, err := p.complete(ctx, copySystemPrompt, user)
	if err != nil {
		return "", err
	}

	rewritten := strings.TrimSpace(extractJSON(raw).Get("description").String())
	if rewritten == "" {
		return "", &domain.ProviderError{Provider: p.Name(), Err: fmt.Errorf("no description in model output")}
	}
	return rewritten, nil
}

func (p *AnthropicProvider) complete(ctx context.Context, system, user string) (string, error) {
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 400,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", p.wrapError(err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &domain.ProviderError{Provider: p.Name(), Err: fmt.Errorf("empty completion")}
	}
	return sb.String(), nil
}

// wrapError classifies API failures: rate limits, 5xx, and deadline
// expiry are transient and retryable; everything else surfaces at once
// to trigger the fallback path.
func (p *AnthropicProvider) wrapError(err error) error {
	transient := errors.Is(err, context.DeadlineExceeded)
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		transient = apierr.StatusCode == 429 || apierr.StatusCode >= 500
	}
	return &domain.ProviderError{Provider: p.Name(), Transient: transient, Err: err}
}

// extractJSON tolerantly pulls the first JSON object out of raw model
// output, surviving code fences and prose wrappers.
func extractJSON(raw string) gjson.Result {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return gjson.Result{}
	}
	candidate := raw[start : end+1]
	if !gjson.Valid(candidate) {
		return gjson.Result{}
	}
	return gjson.Parse(candidate)
}
