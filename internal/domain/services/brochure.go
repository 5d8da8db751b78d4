package services

import (
	"context"

	"prospekt/internal/domain/models"
	"prospekt/internal/httputil"
)

// Upload is one user-provided image file.
type Upload struct {
	Filename string
	Data     []byte
}

// GenerateRequest creates a new brochure from a free-text prompt.
// Hero, when set, supersedes AI hero generation entirely.
type GenerateRequest struct {
	Prompt string  `json:"prompt"`
	Preset string  `json:"preset"`
	Hero   *Upload `json:"-"`
}

// ContactUpdate carries partial contact fields. Absent fields are left
// untouched; explicit null or empty string clears a field.
type ContactUpdate struct {
	Email   httputil.OptionalString `json:"email"`
	Phone   httputil.OptionalString `json:"phone"`
	Website httputil.OptionalString `json:"website"`
	Address httputil.OptionalString `json:"address"`
}

// MutationResult is the outcome of any successful brochure mutation.
// StaleOutputs is set when the schema change was persisted but the
// re-render failed: PNGPath/PDFPath still reference the previous schema
// version and the caller must treat the preview as stale.
type MutationResult struct {
	Brochure     *models.Brochure `json:"brochure"`
	StaleOutputs bool             `json:"stale_outputs,omitempty"`
	RenderDetail string           `json:"render_detail,omitempty"`
}

// GalleryResult extends MutationResult with the per-call accept count.
// Overflow counts uploads dropped because the gallery hit capacity.
type GalleryResult struct {
	MutationResult
	Accepted int `json:"accepted"`
	Overflow int `json:"overflow,omitempty"`
}

// Refine outcomes. NoMatch is a benign, reported result: the
// instruction mapped to no allow-listed operation and the schema is
// untouched.
const (
	RefineApplied = "applied"
	RefineNoMatch = "no_match"
)

// RefineResult reports a refinement cycle.
type RefineResult struct {
	Outcome  string           `json:"outcome"`
	Message  string           `json:"message,omitempty"`
	Brochure *models.Brochure `json:"brochure,omitempty"`

	StaleOutputs bool   `json:"stale_outputs,omitempty"`
	RenderDetail string `json:"render_detail,omitempty"`
}

// BrochureService owns the brochure lifecycle. Identity is an explicit
// parameter on every operation; mutations of one brochure are
// serialized, returning domain.ErrBusy when another is in flight.
type BrochureService interface {
	Generate(ctx context.Context, userID string, req *GenerateRequest) (*MutationResult, error)
	Refine(ctx context.Context, id, userID, instruction string) (*RefineResult, error)
	SetHero(ctx context.Context, id, userID string, upload *Upload) (*MutationResult, error)
	AppendGallery(ctx context.Context, id, userID string, uploads []*Upload) (*GalleryResult, error)
	UpdateContact(ctx context.Context, id, userID string, update *ContactUpdate) (*MutationResult, error)
	List(ctx context.Context, userID string) ([]models.BrochureSummary, error)
}
