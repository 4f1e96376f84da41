package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCoreDictionaries fills the permission dictionary. It has no
// dependencies on other seed data.
func SeedCoreDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Seeding core dictionaries...")

	if err := seedPermissions(ctx, db); err != nil {
		log.Fatalf("❌ Failed to seed permissions: %v", err)
	}
	log.Println("✅ Core dictionaries seeded!")
}

// SeedRolesAndAdmin creates the workflow roles, their permission grants and
// the administrator account. Depends on the permission dictionary.
func SeedRolesAndAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Seeding roles and administrator...")

	if err := seedRoles(ctx, db); err != nil {
		log.Fatalf("❌ Failed to seed roles: %v", err)
	}
	if err := seedRolePermissions(ctx, db); err != nil {
		log.Fatalf("❌ Failed to link roles to permissions: %v", err)
	}
	if err := seedAdminUser(ctx, db); err != nil {
		log.Fatalf("❌ Failed to create admin user: %v", err)
	}

	log.Println("✅ Roles and administrator seeded!")
}
