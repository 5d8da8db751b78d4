package models

import (
	"reflect"
	"strings"
	"testing"
)

type presetSet map[string]bool

func (p presetSet) Valid(key string) bool { return p[key] }

var testPresets = presetSet{
	"editorial_luxury": true,
	"coastal_modern":   true,
}

func validSchema() *Schema {
	return &Schema{
		Meta: Meta{
			Preset:     "editorial_luxury",
			ResortName: "Azure Palms Resort",
			Location:   "Santorini, Greece",
			Prompt:     "a brochure for Azure Palms Resort in Santorini",
		},
		Hero: Hero{
			Image:  "runs/x/hero.png",
			Source: HeroSourceAI,
			Alt:    "Exterior view of Azure Palms Resort",
		},
		Copy: Copy{
			Headline:    "Where Santorini Meets Serenity",
			Description: "A refined coastal retreat. Thoughtful details throughout.",
		},
		Amenities: []string{"Infinity Pool", "Private Beach", "Spa & Wellness", "Fine Dining"},
		Gallery:   []GalleryImage{},
		Contact:   Contact{},
	}
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Schema)
		wantErr bool
	}{
		{
			name:   "valid schema",
			mutate: func(s *Schema) {},
		},
		{
			name:   "empty amenities is a hidden strip",
			mutate: func(s *Schema) { s.Amenities = []string{} },
		},
		{
			name:    "three amenities rejected",
			mutate:  func(s *Schema) { s.Amenities = s.Amenities[:3] },
			wantErr: true,
		},
		{
			name: "seven amenities rejected",
			mutate: func(s *Schema) {
				s.Amenities = append(s.Amenities, "Gym", "Bar", "Club")
			},
			wantErr: true,
		},
		{
			name: "amenity over six words rejected",
			mutate: func(s *Schema) {
				s.Amenities[0] = "a very long amenity label with too many words"
			},
			wantErr: true,
		},
		{
			name:    "blank amenity rejected",
			mutate:  func(s *Schema) { s.Amenities[2] = "   " },
			wantErr: true,
		},
		{
			name:    "headline over limit rejected",
			mutate:  func(s *Schema) { s.Copy.Headline = strings.Repeat("x", 81) },
			wantErr: true,
		},
		{
			name:    "description over limit rejected",
			mutate:  func(s *Schema) { s.Copy.Description = strings.Repeat("x", 321) },
			wantErr: true,
		},
		{
			name:    "unknown preset rejected",
			mutate:  func(s *Schema) { s.Meta.Preset = "brutalist_neon" },
			wantErr: true,
		},
		{
			name:    "unknown hero source rejected",
			mutate:  func(s *Schema) { s.Hero.Source = "scanner" },
			wantErr: true,
		},
		{
			name: "website without qr rejected",
			mutate: func(s *Schema) {
				s.Contact.Website = "https://azurepalms.example"
			},
			wantErr: true,
		},
		{
			name: "qr without website rejected",
			mutate: func(s *Schema) {
				s.Contact.QRCode = "runs/x/qr.png"
			},
			wantErr: true,
		},
		{
			name: "website with qr accepted",
			mutate: func(s *Schema) {
				s.Contact.Website = "https://azurepalms.example"
				s.Contact.QRCode = "runs/x/qr.png"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchema()
			tt.mutate(s)
			err := s.Validate(testPresets)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchemaClone(t *testing.T) {
	original := validSchema()
	original.Gallery = []GalleryImage{{Image: "runs/x/gallery_1.png", Position: 1}}

	clone := original.Clone()
	clone.Copy.Headline = "Changed"
	clone.Amenities[0] = "Changed"
	clone.Gallery[0].Position = 99

	if original.Copy.Headline != "Where Santorini Meets Serenity" {
		t.Error("clone mutation leaked into original headline")
	}
	if original.Amenities[0] != "Infinity Pool" {
		t.Error("clone mutation leaked into original amenities")
	}
	if original.Gallery[0].Position != 1 {
		t.Error("clone mutation leaked into original gallery")
	}
}

func TestSchemaCloneIsRepresentationIdentical(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{name: "nil slices", schema: Schema{}},
		{name: "empty non-nil slices", schema: Schema{
			Amenities: []string{},
			Gallery:   []GalleryImage{},
		}},
		{name: "populated", schema: *validSchema()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clone := tt.schema.Clone()
			if !reflect.DeepEqual(&tt.schema, clone) {
				t.Errorf("clone differs from source: %#v vs %#v", tt.schema, *clone)
			}
			if (tt.schema.Amenities == nil) != (clone.Amenities == nil) {
				t.Error("amenities nil-ness not preserved")
			}
			if (tt.schema.Gallery == nil) != (clone.Gallery == nil) {
				t.Error("gallery nil-ness not preserved")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	s := &Schema{}
	s.ApplyDefaults()

	if s.Meta.Preset != DefaultPreset {
		t.Errorf("preset = %q, want %q", s.Meta.Preset, DefaultPreset)
	}
	if s.Hero.Source != HeroSourceAI {
		t.Errorf("hero source = %q, want %q", s.Hero.Source, HeroSourceAI)
	}
	if s.Amenities == nil || s.Gallery == nil {
		t.Error("ApplyDefaults left nil slices")
	}
}
