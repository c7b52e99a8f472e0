package deck

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/fadedpez/carddeck/internal/logging"
	"github.com/fadedpez/carddeck/internal/types"
	"github.com/fadedpez/carddeck/pkg/db"
	"github.com/fadedpez/carddeck/pkg/db/migrations"
	"github.com/fadedpez/carddeck/pkg/entities"
)

// Schema for the decks table. Timestamps are unix nanoseconds so every
// driver scans them the same way.
var schema = []migrations.Migration{
	{
		Version:     "001",
		Description: "create decks",
		Statements: []string{`
			CREATE TABLE IF NOT EXISTS decks (
				table_id TEXT PRIMARY KEY,
				id TEXT NOT NULL,
				initial_cards TEXT NOT NULL,  -- JSON array of card records
				current_cards TEXT NOT NULL,  -- JSON array of card records
				created_at BIGINT NOT NULL,
				updated_at BIGINT NOT NULL
			)`,
		},
	},
	{
		Version:     "002",
		Description: "index decks by update time",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_decks_updated_at ON decks(updated_at)`,
		},
	},
}

// Schema returns the migrations that build the decks table
func Schema() []migrations.Migration {
	return append([]migrations.Migration(nil), schema...)
}

// SQLRepository implements Repository on SQLite or Postgres
type SQLRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewSQLRepository opens the database and applies migrations
func NewSQLRepository(ctx context.Context, dialect db.Dialect, dsn string, logger *logging.Logger) (*SQLRepository, error) {
	conn, err := db.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabase, "failed to open deck database", err)
	}

	repo, err := NewSQLRepositoryFromDB(ctx, conn, dialect, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLRepositoryFromDB wraps an open database, applying migrations
func NewSQLRepositoryFromDB(ctx context.Context, conn *sql.DB, dialect db.Dialect, logger *logging.Logger) (*SQLRepository, error) {
	migrator := migrations.NewMigrator(conn, dialect, schema, logger)
	if err := migrator.MigrateUp(ctx); err != nil {
		return nil, types.WrapError(types.ErrDatabase, "error applying migrations", err)
	}

	return &SQLRepository{db: conn, dialect: dialect}, nil
}

// SaveDeck upserts the deck for a table
func (r *SQLRepository) SaveDeck(ctx context.Context, rec *entities.DeckRecord) error {
	initialJSON, err := json.Marshal(rec.Initial)
	if err != nil {
		return types.WrapError(types.ErrInternal, "failed to marshal deck", err)
	}
	currentJSON, err := json.Marshal(rec.Current)
	if err != nil {
		return types.WrapError(types.ErrInternal, "failed to marshal deck", err)
	}

	touch(rec, time.Now())

	query := `
		INSERT INTO decks (table_id, id, initial_cards, current_cards, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(table_id)
		DO UPDATE SET id = excluded.id,
			initial_cards = excluded.initial_cards,
			current_cards = excluded.current_cards,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`

	_, err = r.db.ExecContext(ctx, r.dialect.Rebind(query),
		rec.TableID, rec.ID, string(initialJSON), string(currentJSON),
		rec.CreatedAt.UnixNano(), rec.UpdatedAt.UnixNano())
	if err != nil {
		return types.WrapError(types.ErrDatabase, "failed to save deck", db.Describe(err))
	}
	return nil
}

// GetDeck retrieves the deck for a table
func (r *SQLRepository) GetDeck(ctx context.Context, tableID string) (*entities.DeckRecord, error) {
	query := `
		SELECT table_id, id, initial_cards, current_cards, created_at, updated_at
		FROM decks WHERE table_id = ?`

	rec, err := scanDeck(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), tableID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(tableID)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteDeck removes the deck for a table
func (r *SQLRepository) DeleteDeck(ctx context.Context, tableID string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM decks WHERE table_id = ?`), tableID)
	if err != nil {
		return types.WrapError(types.ErrDatabase, "failed to delete deck", db.Describe(err))
	}
	return nil
}

// ListDecks returns every deck ordered by table ID
func (r *SQLRepository) ListDecks(ctx context.Context) ([]*entities.DeckRecord, error) {
	query := `
		SELECT table_id, id, initial_cards, current_cards, created_at, updated_at
		FROM decks ORDER BY table_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabase, "failed to list decks", db.Describe(err))
	}
	defer rows.Close()

	var decks []*entities.DeckRecord
	for rows.Next() {
		rec, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.ErrDatabase, "failed to list decks", err)
	}
	return decks, nil
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDeck(row scanner) (*entities.DeckRecord, error) {
	var (
		rec                      entities.DeckRecord
		initialJSON, currentJSON string
		createdAt, updatedAt     int64
	)
	err := row.Scan(&rec.TableID, &rec.ID, &initialJSON, &currentJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, types.WrapError(types.ErrDatabase, "failed to read deck", db.Describe(err))
	}

	if err := json.Unmarshal([]byte(initialJSON), &rec.Initial); err != nil {
		return nil, types.WrapError(types.ErrDatabase, "corrupt deck record", err)
	}
	if err := json.Unmarshal([]byte(currentJSON), &rec.Current); err != nil {
		return nil, types.WrapError(types.ErrDatabase, "corrupt deck record", err)
	}
	rec.CreatedAt = time.Unix(0, createdAt)
	rec.UpdatedAt = time.Unix(0, updatedAt)
	return &rec, nil
}
