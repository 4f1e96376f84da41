package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedRolePermissions(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Linking roles to permissions...")

	query := `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT r.id, p.id
		FROM roles r, permissions p
		WHERE r.name = $1 AND p.name = $2
		ON CONFLICT DO NOTHING;`

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range rolesData {
		for _, perm := range r.Permissions {
			if _, err := tx.Exec(ctx, query, r.Name, perm); err != nil {
				return err
			}
		}
	}
	return tx.Commit(ctx)
}
