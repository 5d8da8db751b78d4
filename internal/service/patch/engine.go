package patch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"prospekt/internal/config"
	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/domain/services"
	"prospekt/internal/service/synth/promptinfo"
)

// QRRefresher recomputes the derived contact QR code after a contact
// mutation: present exactly when website is set.
type QRRefresher interface {
	Refresh(ctx context.Context, brochureID string, contact *models.Contact) error
}

// HeroRegenerator re-runs AI hero synthesis for an existing brochure,
// storing the new image and updating the hero section in place.
type HeroRegenerator interface {
	Regenerate(ctx context.Context, brochureID string, schema *models.Schema, modifier string) error
}

// Outcome of one refinement cycle.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeNoMatch Outcome = "no_match"
)

// Result is a completed refinement. Schema is nil on NoMatch.
type Result struct {
	Schema  *models.Schema
	Outcome Outcome
	Message string
}

// Engine runs the full refinement pipeline: classify, validate,
// apply-on-copy. The input schema is never mutated.
type Engine struct {
	interpreter Interpreter
	matcher     *Matcher
	text        services.TextSynthesizer
	qr          QRRefresher
	hero        HeroRegenerator
	presets     models.PresetChecker
	logger      *slog.Logger
}

// NewEngine creates a patch engine. interpreter may be nil, in which
// case every instruction goes straight to the deterministic matcher.
func NewEngine(interpreter Interpreter, matcher *Matcher, text services.TextSynthesizer, qr QRRefresher, hero HeroRegenerator, presets models.PresetChecker, logger *slog.Logger) *Engine {
	return &Engine{
		interpreter: interpreter,
		matcher:     matcher,
		text:        text,
		qr:          qr,
		hero:        hero,
		presets:     presets,
		logger:      logger,
	}
}

// Apply refines schema per instruction. A nil error with
// OutcomeNoMatch means the instruction mapped to nothing editable and
// the caller should report that without persisting anything.
func (e *Engine) Apply(ctx context.Context, brochureID string, schema *models.Schema, instruction string) (*Result, error) {
	if len(strings.TrimSpace(instruction)) < config.MinInstructionLength {
		return nil, fmt.Errorf("%w: instruction is too short", domain.ErrValidation)
	}

	ops, err := e.classify(ctx, schema, instruction)
	if errors.Is(err, ErrNoMatch) {
		return &Result{Outcome: OutcomeNoMatch, Message: "no valid edits detected"}, nil
	}
	if err != nil {
		return nil, err
	}

	// All ops validate before any applies.
	for _, op := range ops {
		if err := op.validate(e.presets); err != nil {
			return nil, err
		}
	}

	next := schema.Clone()
	for _, op := range ops {
		if err := e.apply(ctx, brochureID, next, op); err != nil {
			return nil, err
		}
	}

	if reflect.DeepEqual(schema, next) {
		return &Result{Outcome: OutcomeNoMatch, Message: "no valid edits detected"}, nil
	}
	if err := next.Validate(e.presets); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	return &Result{Schema: next, Outcome: OutcomeApplied}, nil
}

// classify runs the AI interpreter when present and falls through to
// the deterministic matcher on interpreter failure. Validation errors
// and no-match verdicts from the interpreter are final; only provider
// failures fall through.
func (e *Engine) classify(ctx context.Context, schema *models.Schema, instruction string) ([]Op, error) {
	if e.interpreter == nil {
		return e.matcher.Interpret(ctx, schema, instruction)
	}

	ops, err := e.interpreter.Interpret(ctx, schema, instruction)
	if err == nil {
		return ops, nil
	}
	if errors.Is(err, ErrNoMatch) || errors.Is(err, domain.ErrValidation) {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	e.logger.Warn("instruction classifier unavailable, using pattern matcher", "error", err)
	return e.matcher.Interpret(ctx, schema, instruction)
}

func (e *Engine) apply(ctx context.Context, brochureID string, schema *models.Schema, op Op) error {
	switch op.Kind {
	case KindSetHeadline:
		schema.Copy.Headline = promptinfo.ClampText(strings.TrimSpace(op.Value), config.MaxHeadlineLength)

	case KindSetDescription:
		schema.Copy.Description = promptinfo.ClampText(strings.TrimSpace(op.Value), config.MaxDescriptionLength)

	case KindSetTone:
		info := services.PromptInfo{
			ResortName: schema.Meta.ResortName,
			Location:   schema.Meta.Location,
		}
		rewritten, err := e.text.RewriteDescription(ctx, schema.Copy.Description, op.Value, info)
		if err != nil {
			return err
		}
		schema.Copy.Description = promptinfo.ClampText(rewritten, config.MaxDescriptionLength)

	case KindHideAmenities:
		schema.Amenities = []string{}

	case KindReplaceAmenities:
		items := cleanItems(op.Items)
		schema.Amenities = items[:min(len(items), config.MaxAmenities)]

	case KindSetPreset:
		schema.Meta.Preset = op.Value

	case KindSetContact:
		value := strings.TrimSpace(op.Value)
		switch op.Field {
		case "email":
			schema.Contact.Email = value
		case "phone":
			schema.Contact.Phone = value
		case "website":
			schema.Contact.Website = value
		case "address":
			schema.Contact.Address = value
		}
		if op.Field == "website" {
			if err := e.qr.Refresh(ctx, brochureID, &schema.Contact); err != nil {
				return err
			}
		}

	case KindSetHeroAlt:
		schema.Hero.Alt = promptinfo.ClampText(strings.TrimSpace(op.Value), config.MaxHeadlineLength)

	case KindRegenerateHero:
		// An explicit regeneration request supersedes a user-uploaded
		// hero; the stored image and source move back to ai.
		if e.hero == nil {
			return fmt.Errorf("%w: hero regeneration is not available", domain.ErrValidation)
		}
		if err := e.hero.Regenerate(ctx, brochureID, schema, strings.TrimSpace(op.Value)); err != nil {
			return err
		}
	}
	return nil
}
