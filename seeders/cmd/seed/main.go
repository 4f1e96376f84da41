package main

import (
	"flag"
	"log"

	"procurement-system/pkg/config"
	"procurement-system/pkg/database/postgresql"
	"procurement-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 DATABASE SEEDER                             ")
	log.Println("======================================================")

	runMigrate := flag.Bool("migrate", false, "Apply pending schema migrations before seeding")
	runCore := flag.Bool("core", false, "Seed core dictionaries (permissions)")
	runRoles := flag.Bool("roles", false, "Seed roles, role permissions and the admin user")
	runAll := flag.Bool("all", false, "Run everything (equivalent to -migrate -core -roles)")

	flag.Parse()

	if !*runMigrate && !*runCore && !*runRoles && !*runAll {
		log.Println("❌ No seeder selected.")
		log.Println("")
		log.Println("Available flags:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Examples:")
		log.Println("  go run ./seeders/cmd/seed/main.go -migrate")
		log.Println("  go run ./seeders/cmd/seed/main.go -core -roles")
		log.Println("  go run ./seeders/cmd/seed/main.go -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	log.Println("📦 Using DSN:", cfg.Postgres.DSN)

	if *runAll || *runMigrate {
		log.Println("▶️  Applying schema migrations...")
		if err := postgresql.RunMigrations(cfg.Postgres.DSN, "migrations"); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		log.Println("✅ Schema is up to date!")
		log.Println("======================================================")
	}

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	log.Println("======================================================")

	if *runAll || *runCore {
		seeders.SeedCoreDictionaries(dbPool)
		log.Println("======================================================")
	}

	if *runAll || *runRoles {
		// Roles reference the permission dictionary.
		seeders.SeedRolesAndAdmin(dbPool)
		log.Println("======================================================")
	}

	log.Println("✅ All requested seeding operations completed.")
	log.Println("======================================================")
}
