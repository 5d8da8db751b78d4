// Package contact merges partial contact updates into a brochure schema
// and keeps the derived website QR code in sync.
package contact

import (
	"context"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"prospekt/internal/config"
	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/domain/services"
	"prospekt/internal/storage"
)

// Resolver applies tri-state contact updates: a field absent from the
// request is untouched, a present field is written (empty clears it).
// The QR code is never written directly; it tracks the website field.
type Resolver struct {
	store storage.Store
}

// NewResolver creates a contact resolver over the given store.
func NewResolver(store storage.Store) *Resolver {
	return &Resolver{store: store}
}

// Apply merges update into the schema's contact section and refreshes
// the QR code when the website changed. Reports whether anything
// actually changed.
func (r *Resolver) Apply(ctx context.Context, brochureID string, schema *models.Schema, update *services.ContactUpdate) (bool, error) {
	before := schema.Contact

	if update.Email.Present {
		schema.Contact.Email = strings.TrimSpace(update.Email.String())
	}
	if update.Phone.Present {
		schema.Contact.Phone = strings.TrimSpace(update.Phone.String())
	}
	if update.Website.Present {
		schema.Contact.Website = strings.TrimSpace(update.Website.String())
	}
	if update.Address.Present {
		schema.Contact.Address = strings.TrimSpace(update.Address.String())
	}

	if err := schema.Contact.Validate(); err != nil {
		schema.Contact = before
		return false, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	if schema.Contact.Website != before.Website {
		if err := r.Refresh(ctx, brochureID, &schema.Contact); err != nil {
			schema.Contact = before
			return false, err
		}
	}

	return schema.Contact != before, nil
}

// Refresh recomputes the QR code from the current website value:
// generated and stored when the website is set, cleared when it is not.
func (r *Resolver) Refresh(ctx context.Context, brochureID string, contact *models.Contact) error {
	if contact.Website == "" {
		contact.QRCode = ""
		return nil
	}

	data, err := qrcode.Encode(contact.Website, qrcode.Medium, config.QRCodeSize)
	if err != nil {
		return fmt.Errorf("encode website QR: %w", err)
	}

	path, err := r.store.Save(ctx, fmt.Sprintf("runs/%s/qr.png", brochureID), data)
	if err != nil {
		return fmt.Errorf("store website QR: %w", err)
	}
	contact.QRCode = path
	return nil
}
