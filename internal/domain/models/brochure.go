package models

import "time"

// Brochure is the root entity: one mutable structured document plus the
// locations of its last successfully rendered artifacts. Created on
// first successful generation, mutated in place by every refinement,
// upload, or contact update; never deleted by the core.
type Brochure struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Prompt    string    `json:"prompt"`
	Schema    *Schema   `json:"schema"`
	PNGPath   string    `json:"png_path"`
	PDFPath   string    `json:"pdf_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BrochureSummary is one history entry: the current state of a brochure
// as the list endpoint reports it, newest first.
type BrochureSummary struct {
	ID        string    `json:"id"`
	Preset    string    `json:"preset"`
	Prompt    string    `json:"prompt"`
	PNGPath   string    `json:"png_path"`
	PDFPath   string    `json:"pdf_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary projects the brochure onto its history record.
func (b *Brochure) Summary() BrochureSummary {
	preset := ""
	if b.Schema != nil {
		preset = b.Schema.Meta.Preset
	}
	return BrochureSummary{
		ID:        b.ID,
		Preset:    preset,
		Prompt:    b.Prompt,
		PNGPath:   b.PNGPath,
		PDFPath:   b.PDFPath,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
