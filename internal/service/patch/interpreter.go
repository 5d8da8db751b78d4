package patch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
)

// Interpreter classifies a free-text instruction into operations.
// ErrNoMatch means the instruction maps to no valid edit; other errors
// mean the interpreter itself failed and a fallback may try.
type Interpreter interface {
	Interpret(ctx context.Context, schema *models.Schema, instruction string) ([]Op, error)
}

// ErrNoMatch is the benign outcome: the instruction was understood as
// requesting nothing within the editable surface.
var ErrNoMatch = errors.New("no valid edits detected")

const interpretSystemPrompt = "You convert a user's brochure edit instruction into JSON operations.\n\n" +
	"STRICT RULES:\n" +
	"- Output ONLY valid JSON. No markdown, no commentary.\n" +
	"- Shape: {\"ops\":[{\"kind\":\"...\",\"value\":\"...\",\"items\":[...],\"field\":\"...\"}]}\n" +
	"- Allowed kinds: set_headline, set_description, set_tone, hide_amenities,\n" +
	"  replace_amenities, set_preset, set_contact, set_hero_alt,\n" +
	"  regenerate_hero.\n" +
	"- set_contact needs \"field\" (email|phone|website|address) and \"value\".\n" +
	"- replace_amenities needs \"items\": 4-6 labels, each at most 6 words.\n" +
	"- set_tone carries the requested tone in \"value\"; the description is\n" +
	"  rewritten elsewhere, do not write it yourself.\n" +
	"- regenerate_hero requests a fresh AI hero image; \"value\" carries an\n" +
	"  optional style modifier (mood, time of day), or \"\".\n" +
	"- Never invent operations outside the list. Never touch fields the user\n" +
	"  did not mention.\n" +
	"- If the instruction is ambiguous or asks for something outside the list,\n" +
	"  return: {\"error\":\"needs_clarification\",\"message\":\"<short reason>\"}\n" +
	"- If the instruction maps to no valid change, return:\n" +
	"  {\"error\":\"no_changes\",\"message\":\"No valid edits detected.\"}\n" +
	"Return JSON only."

// AnthropicInterpreter classifies instructions through the Anthropic
// API.
type AnthropicInterpreter struct {
	client anthropic.Client
	model  string
}

// NewAnthropicInterpreter creates the interpreter with the given API
// key and model.
func NewAnthropicInterpreter(apiKey, model string) (*AnthropicInterpreter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	return &AnthropicInterpreter{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Interpret asks the model to classify the instruction, then decodes
// its output tolerantly. Model-declared ambiguity surfaces as a
// validation error; model-declared emptiness surfaces as ErrNoMatch.
func (i *AnthropicInterpreter) Interpret(ctx context.Context, schema *models.Schema, instruction string) ([]Op, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	user := fmt.Sprintf(
		"Current schema:\n%s\n\nUser instruction:\n%s\n\nReturn ONLY the JSON operations.",
		schemaJSON, instruction,
	)

	message, err := i.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(i.model),
		MaxTokens: 400,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: interpretSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return nil, wrapInterpretError(err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return decodeOps(sb.String())
}

// decodeOps parses model output into operations, surviving fences and
// prose wrappers.
func decodeOps(raw string) ([]Op, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return nil, &domain.ProviderError{Provider: "anthropic", Err: fmt.Errorf("no JSON object in model output")}
	}
	parsed := gjson.Parse(raw[start : end+1])
	if !parsed.IsObject() {
		return nil, &domain.ProviderError{Provider: "anthropic", Err: fmt.Errorf("model output is not a JSON object")}
	}

	switch parsed.Get("error").String() {
	case "needs_clarification":
		msg := parsed.Get("message").String()
		if msg == "" {
			msg = "instruction is ambiguous"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	case "no_changes":
		return nil, ErrNoMatch
	}

	opsNode := parsed.Get("ops")
	if !opsNode.IsArray() {
		return nil, &domain.ProviderError{Provider: "anthropic", Err: fmt.Errorf("model output missing ops array")}
	}

	var ops []Op
	opsNode.ForEach(func(_, node gjson.Result) bool {
		op := Op{
			Kind:  Kind(node.Get("kind").String()),
			Value: node.Get("value").String(),
			Field: node.Get("field").String(),
		}
		node.Get("items").ForEach(func(_, item gjson.Result) bool {
			op.Items = append(op.Items, item.String())
			return true
		})
		ops = append(ops, op)
		return true
	})
	if len(ops) == 0 {
		return nil, ErrNoMatch
	}
	return ops, nil
}

func wrapInterpretError(err error) error {
	transient := errors.Is(err, context.DeadlineExceeded)
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		transient = apierr.StatusCode == 429 || apierr.StatusCode >= 500
	}
	return &domain.ProviderError{Provider: "anthropic", Transient: transient, Err: err}
}
