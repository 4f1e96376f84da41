package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"procurement-system/pkg/utils"
)

func seedAdminUser(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Creating the 'admin' user...")

	email := "admin@procurement.local"
	var exists bool
	if err := db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists); err != nil {
		return err
	}
	if exists {
		log.Println("    - Admin user already exists, skipping.")
		return nil
	}

	var roleID uint64
	if err := db.QueryRow(ctx, "SELECT id FROM roles WHERE name = 'admin' LIMIT 1").Scan(&roleID); err != nil {
		return fmt.Errorf("role 'admin' not found, run the roles seeder first: %w", err)
	}

	hashedPassword, err := utils.HashPassword("Password123!")
	if err != nil {
		return err
	}

	query := `INSERT INTO users (fio, email, phone, password, role_id) VALUES ($1, $2, $3, $4, $5)`
	if _, err := db.Exec(ctx, query, "System Administrator", email, "992000000000", hashedPassword, roleID); err != nil {
		return err
	}
	return nil
}
