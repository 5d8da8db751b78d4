package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/domain/repositories"
)

// PostgresBrochureRepository implements the BrochureRepository interface.
type PostgresBrochureRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewBrochureRepository creates a new brochure repository.
func NewBrochureRepository(config *RepositoryConfig) repositories.BrochureRepository {
	return &PostgresBrochureRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new brochure row.
func (r *PostgresBrochureRepository) Create(ctx context.Context, b *models.Brochure) error {
	schemaJSON, err := json.Marshal(b.Schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, prompt, schema, png_path, pdf_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, r.tables.Brochures)

	err = r.pool.QueryRow(ctx, query,
		b.ID,
		b.UserID,
		b.Prompt,
		schemaJSON,
		b.PNGPath,
		b.PDFPath,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("brochure %s already exists: %w", b.ID, err)
		}
		return fmt.Errorf("create brochure: %w", err)
	}

	return nil
}

// GetByID retrieves a brochure scoped to its owner. A wrong owner is
// indistinguishable from a missing id.
func (r *PostgresBrochureRepository) GetByID(ctx context.Context, id, userID string) (*models.Brochure, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, prompt, schema, png_path, pdf_path, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Brochures)

	var b models.Brochure
	var schemaJSON []byte
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&b.ID,
		&b.UserID,
		&b.Prompt,
		&schemaJSON,
		&b.PNGPath,
		&b.PDFPath,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("brochure %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get brochure: %w", err)
	}

	b.Schema = &models.Schema{}
	if err := json.Unmarshal(schemaJSON, b.Schema); err != nil {
		return nil, fmt.Errorf("unmarshal schema for brochure %s: %w", id, err)
	}
	b.Schema.ApplyDefaults()

	return &b, nil
}

// Update writes the current schema and output paths in one statement,
// so schema state and artifact locations always move together.
func (r *PostgresBrochureRepository) Update(ctx context.Context, b *models.Brochure) error {
	schemaJSON, err := json.Marshal(b.Schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET schema = $1, png_path = $2, pdf_path = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`, r.tables.Brochures)

	result, err := r.pool.Exec(ctx, query,
		schemaJSON,
		b.PNGPath,
		b.PDFPath,
		b.UpdatedAt,
		b.ID,
		b.UserID,
	)
	if err != nil {
		return fmt.Errorf("update brochure: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("brochure %s: %w", b.ID, domain.ErrNotFound)
	}

	return nil
}

// List returns history summaries for the user, newest first.
func (r *PostgresBrochureRepository) List(ctx context.Context, userID string) ([]models.BrochureSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, prompt, schema->'meta'->>'preset', png_path, pdf_path, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Brochures)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list brochures: %w", err)
	}
	defer rows.Close()

	summaries := []models.BrochureSummary{}
	for rows.Next() {
		var s models.BrochureSummary
		var preset *string
		if err := rows.Scan(&s.ID, &s.Prompt, &preset, &s.PNGPath, &s.PDFPath, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan brochure summary: %w", err)
		}
		if preset != nil {
			s.Preset = *preset
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brochures: %w", err)
	}

	return summaries, nil
}
