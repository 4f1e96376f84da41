package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"procurement-system/internal/authz"
)

func seedPermissions(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Filling the 'permissions' table...")

	query := `INSERT INTO permissions (name) VALUES ($1) ON CONFLICT (name) DO NOTHING;`

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, name := range authz.All() {
		if _, err := tx.Exec(ctx, query, name); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
