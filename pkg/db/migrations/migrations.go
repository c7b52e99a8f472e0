package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/fadedpez/carddeck/internal/logging"
	"github.com/fadedpez/carddeck/pkg/db"
)

// Migration represents a database migration
type Migration struct {
	Version     string
	Description string
	Statements  []string
}

// Migrator handles database migrations
type Migrator struct {
	db         *sql.DB
	dialect    db.Dialect
	migrations []Migration
	logger     *logging.Logger
}

// NewMigrator creates a new migrator for the given migrations
func NewMigrator(conn *sql.DB, dialect db.Dialect, migrations []Migration, logger *logging.Logger) *Migrator {
	if logger == nil {
		logger = logging.Default
	}

	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	return &Migrator{
		db:         conn,
		dialect:    dialect,
		migrations: sorted,
		logger:     logger,
	}
}

// Initialize creates the migrations table if it doesn't exist
func (m *Migrator) Initialize(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at BIGINT NOT NULL
		)`)
	return err
}

// GetAppliedMigrations returns a map of already applied migrations
func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// ApplyMigration applies a single migration
func (m *Migrator) ApplyMigration(ctx context.Context, migration Migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, stmt := range migration.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("error applying migration %s: %w", migration.Version, db.Describe(err))
		}
	}

	// Record the migration
	_, err = tx.ExecContext(ctx,
		m.dialect.Rebind("INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)"),
		migration.Version,
		migration.Description,
		time.Now().UnixNano(),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error recording migration %s: %w", migration.Version, db.Describe(err))
	}

	return tx.Commit()
}

// MigrateUp applies all pending migrations
func (m *Migrator) MigrateUp(ctx context.Context) error {
	if err := m.Initialize(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if applied[migration.Version] {
			m.logger.Debug("Migration %s already applied, skipping", migration.Version)
			continue
		}

		m.logger.Info("Applying migration %s: %s", migration.Version, migration.Description)
		if err := m.ApplyMigration(ctx, migration); err != nil {
			return err
		}
		m.logger.Info("Migration %s applied successfully", migration.Version)
	}

	return nil
}

// Pending returns the migrations not yet applied
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	if err := m.Initialize(ctx); err != nil {
		return nil, err
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, migration := range m.migrations {
		if !applied[migration.Version] {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}
