package patch

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"

	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/domain/services"
)

type presetSet map[string]bool

func (p presetSet) Valid(key string) bool { return p[key] }

var testPresets = presetSet{
	"editorial_luxury": true,
	"coastal_modern":   true,
}

type stubText struct{}

func (stubText) Synthesize(_ context.Context, _ string, _ services.PromptInfo, _ string) (*services.CopyBundle, error) {
	return nil, errors.New("not used")
}

func (stubText) RewriteDescription(_ context.Context, current, tone string, _ services.PromptInfo) (string, error) {
	return "Rewritten in a " + tone + " tone.", nil
}

type stubQR struct {
	refreshed bool
}

type stubHeroRegen struct {
	modifier string
	calls    int
}

func (h *stubHeroRegen) Regenerate(_ context.Context, _ string, schema *models.Schema, modifier string) error {
	h.modifier = modifier
	h.calls++
	schema.Hero.Image = "runs/x/hero_regen.png"
	schema.Hero.Source = models.HeroSourceAI
	return nil
}

func (q *stubQR) Refresh(_ context.Context, _ string, contact *models.Contact) error {
	q.refreshed = true
	if contact.Website == "" {
		contact.QRCode = ""
	} else {
		contact.QRCode = "runs/x/qr.png"
	}
	return nil
}

func testSchema() *models.Schema {
	return &models.Schema{
		Meta: models.Meta{
			Preset:     "editorial_luxury",
			ResortName: "Azure Palms Resort",
			Location:   "Santorini, Greece",
			Prompt:     "a brochure for Azure Palms Resort in Santorini",
		},
		Hero: models.Hero{
			Image:  "runs/x/hero.png",
			Source: models.HeroSourceUser,
			Alt:    "Exterior view",
		},
		Copy: models.Copy{
			Headline:    "Where Santorini Meets Serenity",
			Description: "A refined coastal retreat. Thoughtful details throughout.",
		},
		Amenities: []string{"Infinity Pool", "Private Beach", "Spa", "Fine Dining"},
		Gallery:   []models.GalleryImage{},
		Contact:   models.Contact{},
	}
}

func newTestEngine(qr QRRefresher) *Engine {
	return newTestEngineWithHero(qr, &stubHeroRegen{})
}

func newTestEngineWithHero(qr QRRefresher, hero HeroRegenerator) *Engine {
	if qr == nil {
		qr = &stubQR{}
	}
	keys := []string{"editorial_luxury", "coastal_modern"}
	return NewEngine(nil, NewMatcher(keys), stubText{}, qr, hero, testPresets, slog.New(slog.DiscardHandler))
}

func TestEngineSetHeadline(t *testing.T) {
	engine := newTestEngine(nil)
	original := testSchema()
	before := original.Clone()

	result, err := engine.Apply(context.Background(), "b1", original, `change the headline to "A New Dawn Over Santorini"`)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Outcome != OutcomeApplied {
		t.Fatalf("outcome = %v", result.Outcome)
	}
	if result.Schema.Copy.Headline != "A New Dawn Over Santorini" {
		t.Errorf("headline = %q", result.Schema.Copy.Headline)
	}

	// The input schema is untouched, and every field the op did not
	// name is identical in the output.
	if !reflect.DeepEqual(original, before) {
		t.Error("Apply mutated the input schema")
	}
	result.Schema.Copy.Headline = before.Copy.Headline
	if !reflect.DeepEqual(result.Schema, before) {
		t.Error("fields outside the op changed")
	}
}

func TestEngineHideAmenities(t *testing.T) {
	engine := newTestEngine(nil)
	result, err := engine.Apply(context.Background(), "b1", testSchema(), "please remove the amenities section")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Outcome != OutcomeApplied {
		t.Fatalf("outcome = %v", result.Outcome)
	}
	if len(result.Schema.Amenities) != 0 {
		t.Errorf("amenities = %v, want empty", result.Schema.Amenities)
	}
}

func TestEngineReplaceAmenities(t *testing.T) {
	engine := newTestEngine(nil)

	result, err := engine.Apply(context.Background(), "b1", testSchema(),
		"set amenities: Rooftop Bar, Yoga Deck, Wine Cellar, Tennis Court, Kids Club")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []string{"Rooftop Bar", "Yoga Deck", "Wine Cellar", "Tennis Court", "Kids Club"}
	if !reflect.DeepEqual(result.Schema.Amenities, want) {
		t.Errorf("amenities = %v, want %v", result.Schema.Amenities, want)
	}
}

func TestEngineReplaceAmenitiesTooFew(t *testing.T) {
	engine := newTestEngine(nil)
	_, err := engine.Apply(context.Background(), "b1", testSchema(), "set amenities: Pool, Spa")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestEngineNoMatchLeavesSchemaUntouched(t *testing.T) {
	engine := newTestEngine(nil)
	original := testSchema()
	before := original.Clone()

	for _, instruction := range []string{
		"tell me a joke about hotels",
		"make it sparkle",
	} {
		result, err := engine.Apply(context.Background(), "b1", original, instruction)
		if err != nil {
			t.Fatalf("Apply(%q) error = %v", instruction, err)
		}
		if result.Outcome != OutcomeNoMatch {
			t.Fatalf("Apply(%q) outcome = %v, want no match", instruction, result.Outcome)
		}
		if result.Schema != nil {
			t.Errorf("Apply(%q) no-match result carries a schema", instruction)
		}
		if !reflect.DeepEqual(original, before) {
			t.Errorf("Apply(%q) mutated the schema", instruction)
		}
	}
}

func TestEngineInstructionTooShort(t *testing.T) {
	engine := newTestEngine(nil)
	_, err := engine.Apply(context.Background(), "b1", testSchema(), "x")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestEngineSetContactWebsiteRefreshesQR(t *testing.T) {
	qr := &stubQR{}
	engine := newTestEngine(qr)

	result, err := engine.Apply(context.Background(), "b1", testSchema(),
		"set the website to https://azurepalms.example")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !qr.refreshed {
		t.Error("website change did not refresh the QR code")
	}
	if result.Schema.Contact.Website != "https://azurepalms.example" {
		t.Errorf("website = %q", result.Schema.Contact.Website)
	}
	if result.Schema.Contact.QRCode == "" {
		t.Error("qr code missing after website set")
	}
}

func TestEngineSetContactEmailSkipsQR(t *testing.T) {
	qr := &stubQR{}
	engine := newTestEngine(qr)

	result, err := engine.Apply(context.Background(), "b1", testSchema(),
		"change the email to hello@azurepalms.example")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if qr.refreshed {
		t.Error("email change refreshed the QR code")
	}
	if result.Schema.Contact.Email != "hello@azurepalms.example" {
		t.Errorf("email = %q", result.Schema.Contact.Email)
	}
}

func TestEngineSetPreset(t *testing.T) {
	engine := newTestEngine(nil)

	result, err := engine.Apply(context.Background(), "b1", testSchema(),
		"switch the style to coastal_modern")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Schema.Meta.Preset != "coastal_modern" {
		t.Errorf("preset = %q", result.Schema.Meta.Preset)
	}
	// Hero source survives unrelated refinements.
	if result.Schema.Hero.Source != models.HeroSourceUser {
		t.Errorf("hero source = %q, want user", result.Schema.Hero.Source)
	}
}

func TestEngineUnknownPresetRejected(t *testing.T) {
	engine := newTestEngine(nil)
	original := testSchema()
	before := original.Clone()

	_, err := engine.Apply(context.Background(), "b1", original, "set the preset to vaporwave")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if original.Meta.Preset != before.Meta.Preset {
		t.Errorf("preset = %q, rejected instruction mutated it", original.Meta.Preset)
	}
	if !reflect.DeepEqual(original, before) {
		t.Error("rejected instruction mutated the schema")
	}
}

func TestEngineRegenerateHero(t *testing.T) {
	hero := &stubHeroRegen{}
	engine := newTestEngineWithHero(nil, hero)
	original := testSchema()

	result, err := engine.Apply(context.Background(), "b1", original,
		"regenerate the hero image with a warm sunset mood")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if hero.calls != 1 {
		t.Fatalf("regenerator calls = %d, want 1", hero.calls)
	}
	if hero.modifier != "a warm sunset mood" {
		t.Errorf("modifier = %q", hero.modifier)
	}
	if result.Schema.Hero.Source != models.HeroSourceAI {
		t.Errorf("hero source = %q, want ai", result.Schema.Hero.Source)
	}
	if original.Hero.Image != "runs/x/hero.png" {
		t.Error("regeneration mutated the input schema")
	}
	if result.Schema.Copy.Headline != original.Copy.Headline {
		t.Error("regeneration touched the copy")
	}
}

func TestEngineSetTone(t *testing.T) {
	engine := newTestEngine(nil)

	instructions := []string{
		"make it sound more playful",
		"make it more playful please",
	}
	for _, instruction := range instructions {
		result, err := engine.Apply(context.Background(), "b1", testSchema(), instruction)
		if err != nil {
			t.Fatalf("Apply(%q) error = %v", instruction, err)
		}
		if result.Schema.Copy.Description != "Rewritten in a playful tone." {
			t.Errorf("Apply(%q) description = %q", instruction, result.Schema.Copy.Description)
		}
		if result.Schema.Copy.Headline != "Where Santorini Meets Serenity" {
			t.Errorf("Apply(%q) tone rewrite touched the headline", instruction)
		}
	}
}

func TestDecodeOps(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantKind    Kind
		wantNoMatch bool
		wantErr     bool
	}{
		{
			name:     "plain ops object",
			raw:      `{"ops":[{"kind":"set_headline","value":"New"}]}`,
			wantKind: KindSetHeadline,
		},
		{
			name:     "fenced output",
			raw:      "```json\n{\"ops\":[{\"kind\":\"hide_amenities\"}]}\n```",
			wantKind: KindHideAmenities,
		},
		{
			name:        "model-declared no changes",
			raw:         `{"error":"no_changes","message":"No valid edits detected."}`,
			wantNoMatch: true,
		},
		{
			name:    "model-declared ambiguity",
			raw:     `{"error":"needs_clarification","message":"which section?"}`,
			wantErr: true,
		},
		{
			name:    "prose without JSON",
			raw:     "I cannot help with that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := decodeOps(tt.raw)
			if tt.wantNoMatch {
				if !errors.Is(err, ErrNoMatch) {
					t.Fatalf("err = %v, want ErrNoMatch", err)
				}
				return
			}
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeOps() error = %v", err)
			}
			if len(ops) != 1 || ops[0].Kind != tt.wantKind {
				t.Errorf("ops = %+v, want single %s", ops, tt.wantKind)
			}
		})
	}
}
