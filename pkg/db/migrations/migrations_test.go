package migrations

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/fadedpez/carddeck/internal/logging"
	"github.com/fadedpez/carddeck/pkg/db"
	"github.com/stretchr/testify/suite"
)

type MigrationsTestSuite struct {
	suite.Suite
	ctx  context.Context
	conn *sql.DB
	logs *bytes.Buffer
}

func TestMigrationsSuite(t *testing.T) {
	suite.Run(t, new(MigrationsTestSuite))
}

func (s *MigrationsTestSuite) SetupTest() {
	s.ctx = context.Background()
	conn, err := db.Open(s.ctx, db.SQLitePure, ":memory:")
	s.Require().NoError(err)
	s.conn = conn
	s.logs = &bytes.Buffer{}
}

func (s *MigrationsTestSuite) TearDownTest() {
	s.conn.Close()
}

func (s *MigrationsTestSuite) migrator(list []Migration) *Migrator {
	return NewMigrator(s.conn, db.SQLitePure, list, logging.NewLoggerTo(s.logs, logging.DEBUG))
}

func (s *MigrationsTestSuite) TestMigrateUp() {
	// Setup
	list := []Migration{
		{Version: "002", Description: "add index", Statements: []string{"CREATE INDEX idx_things_name ON things(name)"}},
		{Version: "001", Description: "create things", Statements: []string{"CREATE TABLE things (name TEXT)"}},
	}

	// Execute
	err := s.migrator(list).MigrateUp(s.ctx)

	// Assert
	s.Require().NoError(err)
	applied, err := s.migrator(list).GetAppliedMigrations(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[string]bool{"001": true, "002": true}, applied)
	s.Contains(s.logs.String(), "Applying migration 001: create things")
}

func (s *MigrationsTestSuite) TestMigrateUpIsIdempotent() {
	list := []Migration{
		{Version: "001", Description: "create things", Statements: []string{"CREATE TABLE things (name TEXT)"}},
	}
	s.Require().NoError(s.migrator(list).MigrateUp(s.ctx))

	err := s.migrator(list).MigrateUp(s.ctx)

	s.NoError(err)
	s.Contains(s.logs.String(), "Migration 001 already applied, skipping")
}

func (s *MigrationsTestSuite) TestFailedMigrationRollsBack() {
	// Setup
	list := []Migration{
		{Version: "001", Description: "broken", Statements: []string{
			"CREATE TABLE things (name TEXT)",
			"CREATE TABLE nope (",
		}},
	}

	// Execute
	err := s.migrator(list).MigrateUp(s.ctx)

	// Assert
	s.Error(err)
	pending, err := s.migrator(list).Pending(s.ctx)
	s.Require().NoError(err)
	s.Len(pending, 1)
}

func (s *MigrationsTestSuite) TestPending() {
	list := []Migration{
		{Version: "001", Description: "create things", Statements: []string{"CREATE TABLE things (name TEXT)"}},
	}
	m := s.migrator(list)

	pending, err := m.Pending(s.ctx)
	s.Require().NoError(err)
	s.Len(pending, 1)

	s.Require().NoError(m.MigrateUp(s.ctx))
	pending, err = m.Pending(s.ctx)
	s.Require().NoError(err)
	s.Empty(pending)
}
