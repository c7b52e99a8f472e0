package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Dialect describes how to talk to one SQL backend
type Dialect struct {
	Name   string
	Driver string
	// Numbered placeholders ($1, $2) instead of ?
	Numbered bool
}

var (
	// SQLite uses the cgo driver
	SQLite = Dialect{Name: "sqlite", Driver: "sqlite3"}
	// SQLitePure uses the pure Go driver
	SQLitePure = Dialect{Name: "sqlite-pure", Driver: "sqlite"}
	// Postgres uses lib/pq
	Postgres = Dialect{Name: "postgres", Driver: "postgres", Numbered: true}
)

// DialectFor maps a storage type onto its dialect
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case SQLite.Name, "sqlite3":
		return SQLite, nil
	case SQLitePure.Name:
		return SQLitePure, nil
	case Postgres.Name, "postgresql":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database dialect: %s", name)
}

// IsSQLite reports whether the dialect is backed by a SQLite file
func (d Dialect) IsSQLite() bool {
	return d.Driver == SQLite.Driver || d.Driver == SQLitePure.Driver
}

// Rebind rewrites ? placeholders for dialects that number them
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Open opens and pings a database. SQLite files get their directory created
// and are limited to one connection.
func Open(ctx context.Context, d Dialect, dsn string) (*sql.DB, error) {
	if d.IsSQLite() && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	conn, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if d.IsSQLite() {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error connecting to database: %w", Describe(err))
	}
	return conn, nil
}

// Describe adds the server error code to postgres errors
func Describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w (postgres %s: %s)", err, pqErr.Code, pqErr.Code.Name())
	}
	return err
}
