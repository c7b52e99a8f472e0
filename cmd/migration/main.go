package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fadedpez/carddeck/internal/config"
	"github.com/fadedpez/carddeck/internal/logging"
	"github.com/fadedpez/carddeck/pkg/db"
	"github.com/fadedpez/carddeck/pkg/db/migrations"
	deckRepo "github.com/fadedpez/carddeck/pkg/repositories/deck"
)

func main() {
	statusCmd := flag.NewFlagSet("status", flag.ExitOnError)
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	statusStorage := statusCmd.String("storage", "", "Storage type (sqlite, sqlite-pure, postgres); defaults to STORAGE_TYPE")
	statusURL := statusCmd.String("db", "", "Database path or URL; defaults to DATABASE_URL")
	migrateStorage := migrateCmd.String("storage", "", "Storage type (sqlite, sqlite-pure, postgres); defaults to STORAGE_TYPE")
	migrateURL := migrateCmd.String("db", "", "Database path or URL; defaults to DATABASE_URL")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "status":
		statusCmd.Parse(os.Args[2:])
		migrator, closeDB := openMigrator(ctx, *statusStorage, *statusURL)
		defer closeDB()
		showStatus(ctx, migrator)

	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		migrator, closeDB := openMigrator(ctx, *migrateStorage, *migrateURL)
		defer closeDB()
		if err := migrator.MigrateUp(ctx); err != nil {
			log.Fatalf("Error applying migrations: %v", err)
		}
		fmt.Println("Migrations applied successfully!")

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/migration status   - List applied and pending deck store migrations")
	fmt.Println("  go run ./cmd/migration migrate  - Apply pending migrations")
	fmt.Println("  go run ./cmd/migration help     - Show this help")
	fmt.Println("\nExamples:")
	fmt.Println("  go run ./cmd/migration migrate -storage sqlite -db data/carddeck.db")
	fmt.Println("  go run ./cmd/migration status -storage postgres -db postgres://localhost/carddeck")
}

func openMigrator(ctx context.Context, storage, dsn string) (*migrations.Migrator, func()) {
	if storage == "" || dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}
		if storage == "" {
			storage = cfg.StorageType
		}
		if dsn == "" {
			dsn = cfg.DatabaseURL
		}
	}

	dialect, err := db.DialectFor(storage)
	if err != nil {
		log.Fatalf("Storage %q has no migrations: %v", storage, err)
	}
	if dsn == "" {
		log.Fatalf("No database given for %s", dialect.Name)
	}

	conn, err := db.Open(ctx, dialect, dsn)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	migrator := migrations.NewMigrator(conn, dialect, deckRepo.Schema(), logging.NewLogger(logging.INFO))
	return migrator, func() { conn.Close() }
}

func showStatus(ctx context.Context, migrator *migrations.Migrator) {
	pending, err := migrator.Pending(ctx)
	if err != nil {
		log.Fatalf("Error reading migrations: %v", err)
	}
	waiting := make(map[string]bool, len(pending))
	for _, m := range pending {
		waiting[m.Version] = true
	}

	for _, m := range deckRepo.Schema() {
		state := "applied"
		if waiting[m.Version] {
			state = "pending"
		}
		fmt.Printf("%s  %-8s %s\n", m.Version, state, m.Description)
	}
}
