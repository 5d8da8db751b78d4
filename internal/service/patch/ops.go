// Package patch turns free-text refinement instructions into bounded
// schema mutations. An instruction is classified into tagged operations
// drawn from a fixed allow-list, validated as a group, and applied in
// one step on a deep copy; anything outside the allow-list is either a
// validation error or a benign no-match.
package patch

import (
	"fmt"
	"strings"

	"prospekt/internal/config"
	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/service/synth/promptinfo"
)

// Kind names one allowed operation.
type Kind string

const (
	KindSetHeadline      Kind = "set_headline"
	KindSetDescription   Kind = "set_description"
	KindSetTone          Kind = "set_tone"
	KindHideAmenities    Kind = "hide_amenities"
	KindReplaceAmenities Kind = "replace_amenities"
	KindSetPreset        Kind = "set_preset"
	KindSetContact       Kind = "set_contact"
	KindSetHeroAlt       Kind = "set_hero_alt"
	KindRegenerateHero   Kind = "regenerate_hero"
)

// contactFields are the Contact members set_contact may address.
// qr_code is derived and never directly writable.
var contactFields = map[string]bool{
	"email":   true,
	"phone":   true,
	"website": true,
	"address": true,
}

// Op is one classified mutation. Value carries the text payload for
// single-value kinds; Items carries the full replacement list for
// replace_amenities; Field names the contact member for set_contact.
type Op struct {
	Kind  Kind
	Value string
	Items []string
	Field string
}

// validate checks one op's payload against the schema bounds. presets
// resolves preset membership for set_preset.
func (op Op) validate(presets models.PresetChecker) error {
	switch op.Kind {
	case KindSetHeadline:
		if strings.TrimSpace(op.Value) == "" {
			return fmt.Errorf("%w: headline cannot be empty", domain.ErrValidation)
		}
	case KindSetDescription:
		if strings.TrimSpace(op.Value) == "" {
			return fmt.Errorf("%w: description cannot be empty", domain.ErrValidation)
		}
	case KindSetTone:
		if strings.TrimSpace(op.Value) == "" {
			return fmt.Errorf("%w: tone cannot be empty", domain.ErrValidation)
		}
	case KindHideAmenities:
		// no payload
	case KindReplaceAmenities:
		items := cleanItems(op.Items)
		if len(items) < config.MinAmenities || len(items) > config.MaxAmenities {
			return fmt.Errorf("%w: amenities require %d-%d items", domain.ErrValidation, config.MinAmenities, config.MaxAmenities)
		}
	case KindSetPreset:
		if !presets.Valid(op.Value) {
			return fmt.Errorf("%w: unknown preset %q", domain.ErrValidation, op.Value)
		}
	case KindSetContact:
		if !contactFields[op.Field] {
			return fmt.Errorf("%w: unknown contact field %q", domain.ErrValidation, op.Field)
		}
		if len(op.Value) > config.MaxContactFieldLength {
			return fmt.Errorf("%w: contact %s exceeds %d characters", domain.ErrValidation, op.Field, config.MaxContactFieldLength)
		}
	case KindSetHeroAlt:
		if strings.TrimSpace(op.Value) == "" {
			return fmt.Errorf("%w: alt text cannot be empty", domain.ErrValidation)
		}
	case KindRegenerateHero:
		// Value is an optional style modifier.
		if len(op.Value) > config.MaxPromptLength {
			return fmt.Errorf("%w: hero style modifier exceeds %d characters", domain.ErrValidation, config.MaxPromptLength)
		}
	default:
		return fmt.Errorf("%w: unknown operation %q", domain.ErrValidation, op.Kind)
	}
	return nil
}

// cleanItems trims, drops blanks, and word-caps amenity labels.
func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = promptinfo.TrimWords(strings.TrimSpace(item), config.MaxAmenityWords)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
