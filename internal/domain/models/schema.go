package models

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"prospekt/internal/config"
)

// Hero image origin discriminator. A user upload permanently supersedes
// the AI-generated hero until a new upload or an explicit regeneration.
const (
	HeroSourceAI   = "ai"
	HeroSourceUser = "user"
)

// DefaultPreset mirrors preset.Default; kept here so the model package
// stays independent of the catalog.
const DefaultPreset = "editorial_luxury"

// Schema is the structured content document behind one brochure. It is
// the sole persisted source of truth: every render is a pure function of
// this value, and every refinement is a bounded mutation of it.
type Schema struct {
	Meta      Meta           `json:"meta"`
	Hero      Hero           `json:"hero"`
	Copy      Copy           `json:"copy"`
	Amenities []string       `json:"amenities"`
	Gallery   []GalleryImage `json:"gallery"`
	Contact   Contact        `json:"contact"`
}

// Meta holds generation provenance and the selected style preset.
type Meta struct {
	Preset     string `json:"preset"`
	ResortName string `json:"resort_name"`
	Location   string `json:"location"`
	Prompt     string `json:"prompt"`
}

// Hero references the stored hero image and its origin.
type Hero struct {
	Image  string `json:"image"` // storage path, empty when generation had no image
	Source string `json:"source"`
	Alt    string `json:"alt"`
}

// Copy holds the headline and description text.
type Copy struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
}

// GalleryImage is one uploaded gallery slot. Position is assigned
// sequentially in upload order and never reused.
type GalleryImage struct {
	Image    string `json:"image"`
	Position int    `json:"position"`
}

// Contact holds optional contact fields. QRCode is derived: present if
// and only if Website is non-empty, recomputed inside the same patch
// that touches Website.
type Contact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Address string `json:"address,omitempty"`
	QRCode  string `json:"qr_code,omitempty"`
}

// PresetChecker reports preset membership. Implemented by preset.Catalog;
// declared here so the model stays free of catalog wiring.
type PresetChecker interface {
	Valid(key string) bool
}

// Validate checks the structural invariants of the schema. It returns a
// domain.ErrValidation-compatible error listing every violated rule.
func (s *Schema) Validate(presets PresetChecker) error {
	err := validation.ValidateStruct(s,
		validation.Field(&s.Meta),
		validation.Field(&s.Hero),
		validation.Field(&s.Copy),
		validation.Field(&s.Amenities, validation.By(validateAmenities)),
		validation.Field(&s.Gallery, validation.Length(0, config.MaxGalleryImages)),
		validation.Field(&s.Contact),
	)
	if err != nil {
		return err
	}

	if !presets.Valid(s.Meta.Preset) {
		return fmt.Errorf("meta: unknown preset %q", s.Meta.Preset)
	}
	if (s.Contact.QRCode != "") != (s.Contact.Website != "") {
		return fmt.Errorf("contact: qr_code must be present exactly when website is set")
	}
	return nil
}

func (m Meta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Preset, validation.Required),
		validation.Field(&m.ResortName, validation.Required, validation.Length(1, 255)),
		validation.Field(&m.Prompt, validation.Required, validation.Length(config.MinPromptLength, config.MaxPromptLength)),
	)
}

func (h Hero) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Source, validation.Required, validation.In(HeroSourceAI, HeroSourceUser)),
	)
}

func (c Copy) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Headline, validation.Required, validation.Length(1, config.MaxHeadlineLength)),
		validation.Field(&c.Description, validation.Required, validation.Length(1, config.MaxDescriptionLength)),
	)
}

func (c Contact) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Length(0, config.MaxContactFieldLength)),
		validation.Field(&c.Phone, validation.Length(0, config.MaxContactFieldLength)),
		validation.Field(&c.Website, validation.Length(0, config.MaxContactFieldLength)),
		validation.Field(&c.Address, validation.Length(0, config.MaxContactFieldLength)),
	)
}

// validateAmenities allows either an empty (hidden) strip or a populated
// one within the configured bounds, each label short enough to scan.
func validateAmenities(value interface{}) error {
	items, ok := value.([]string)
	if !ok {
		return fmt.Errorf("must be a list of labels")
	}
	if len(items) == 0 {
		return nil
	}
	if len(items) < config.MinAmenities || len(items) > config.MaxAmenities {
		return fmt.Errorf("must have %d-%d items or be empty", config.MinAmenities, config.MaxAmenities)
	}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("items cannot be blank")
		}
		if len(strings.Fields(item)) > config.MaxAmenityWords {
			return fmt.Errorf("item %q exceeds %d words", item, config.MaxAmenityWords)
		}
	}
	return nil
}

// ApplyDefaults fills unset optional sections without inventing content.
func (s *Schema) ApplyDefaults() {
	if s.Meta.Preset == "" {
		s.Meta.Preset = DefaultPreset
	}
	if s.Hero.Source == "" {
		s.Hero.Source = HeroSourceAI
	}
	if s.Amenities == nil {
		s.Amenities = []string{}
	}
	if s.Gallery == nil {
		s.Gallery = []GalleryImage{}
	}
}

// Clone returns a deep copy. Patch application always mutates a clone
// so a rejected patch leaves the original untouched. Slice nil-ness is
// preserved: a clone is representation-identical to its source, so an
// unchanged clone compares DeepEqual.
func (s *Schema) Clone() *Schema {
	out := *s
	if s.Amenities != nil {
		out.Amenities = make([]string, len(s.Amenities))
		copy(out.Amenities, s.Amenities)
	}
	if s.Gallery != nil {
		out.Gallery = make([]GalleryImage, len(s.Gallery))
		copy(out.Gallery, s.Gallery)
	}
	return &out
}
