package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the brochures table when it does not exist. The
// schema column is jsonb so history listing can project the preset
// without unmarshaling the whole document.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         UUID PRIMARY KEY,
			user_id    TEXT NOT NULL,
			prompt     TEXT NOT NULL,
			schema     JSONB NOT NULL,
			png_path   TEXT NOT NULL DEFAULT '',
			pdf_path   TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS %[1]s_user_created_idx
			ON %[1]s (user_id, created_at DESC);
	`, tables.Brochures)

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure brochures table: %w", err)
	}
	return nil
}
