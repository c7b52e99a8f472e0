package db

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
)

type DialectTestSuite struct {
	suite.Suite
}

func TestDialectSuite(t *testing.T) {
	suite.Run(t, new(DialectTestSuite))
}

func (s *DialectTestSuite) TestDialectFor() {
	testCases := []struct {
		name     string
		expected Dialect
	}{
		{name: "sqlite", expected: SQLite},
		{name: "sqlite3", expected: SQLite},
		{name: "sqlite-pure", expected: SQLitePure},
		{name: "Postgres", expected: Postgres},
		{name: "postgresql", expected: Postgres},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			d, err := DialectFor(tc.name)
			s.Require().NoError(err)
			s.Equal(tc.expected, d)
		})
	}

	_, err := DialectFor("oracle")
	s.Error(err)
}

func (s *DialectTestSuite) TestRebind() {
	query := "UPDATE decks SET current = ? WHERE table_id = ? AND id = ?"

	s.Equal(query, SQLite.Rebind(query))
	s.Equal("UPDATE decks SET current = $1 WHERE table_id = $2 AND id = $3", Postgres.Rebind(query))
}

func (s *DialectTestSuite) TestOpenInMemory() {
	conn, err := Open(context.Background(), SQLitePure, ":memory:")
	s.Require().NoError(err)
	defer conn.Close()

	var n int
	s.Require().NoError(conn.QueryRow("SELECT 1").Scan(&n))
	s.Equal(1, n)
}

func (s *DialectTestSuite) TestDescribe() {
	err := &pq.Error{Code: "23505", Message: "duplicate key value"}

	described := Describe(err)

	s.Contains(described.Error(), "postgres 23505: unique_violation")
	s.True(errors.Is(described, err))

	plain := errors.New("plain")
	s.Equal(plain, Describe(plain))
}
