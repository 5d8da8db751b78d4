package repositories

import (
	"context"

	"prospekt/internal/domain/models"
)

// BrochureRepository persists brochures. Every read and write is scoped
// to the owning user: a lookup with the wrong user behaves exactly like
// a lookup of a missing id, so existence never leaks across owners.
type BrochureRepository interface {
	Create(ctx context.Context, brochure *models.Brochure) error
	GetByID(ctx context.Context, id, userID string) (*models.Brochure, error)
	Update(ctx context.Context, brochure *models.Brochure) error
	List(ctx context.Context, userID string) ([]models.BrochureSummary, error)
}
