package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PermissionRepositoryInterface interface {
	GetPermissionsNamesByRoleID(ctx context.Context, roleID uint64) ([]string, error)
}

type permissionRepository struct{ storage *pgxpool.Pool }

func NewPermissionRepository(storage *pgxpool.Pool) PermissionRepositoryInterface {
	return &permissionRepository{storage: storage}
}

func (r *permissionRepository) GetPermissionsNamesByRoleID(ctx context.Context, roleID uint64) ([]string, error) {
	query := `
		SELECT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name`

	rows, err := r.storage.Query(ctx, query, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
