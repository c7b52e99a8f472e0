package history

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fadedpez/carddeck/internal/types"
	"github.com/fadedpez/carddeck/pkg/entities"
	"github.com/stretchr/testify/suite"
)

type MemoryHistoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	repo *MemoryRepository
	now  time.Time
}

func TestMemoryHistorySuite(t *testing.T) {
	suite.Run(t, new(MemoryHistoryTestSuite))
}

func (s *MemoryHistoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = NewMemoryRepository()
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *MemoryHistoryTestSuite) record(tableID, card string, age time.Duration) {
	s.Require().NoError(s.repo.RecordDraw(s.ctx, &entities.DrawRecord{
		ID:      tableID + "-" + card,
		TableID: tableID,
		Card:    card,
		DrawnAt: s.now.Add(-age),
	}))
}

func (s *MemoryHistoryTestSuite) TestRecentDrawsNewestFirst() {
	// Setup
	s.record("t1", "2C", 3*time.Minute)
	s.record("t1", "3C", 2*time.Minute)
	s.record("t1", "4C", time.Minute)
	s.record("t2", "AS", time.Minute)

	// Execute
	draws, err := s.repo.RecentDraws(s.ctx, "t1", 2)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(draws, 2)
	s.Equal("4C", draws[0].Card)
	s.Equal("3C", draws[1].Card)
}

func (s *MemoryHistoryTestSuite) TestRecentDrawsDefaultLimit() {
	for i := 0; i < DefaultLimit+5; i++ {
		s.record("t1", string(rune('a'+i)), time.Duration(i)*time.Second)
	}

	draws, err := s.repo.RecentDraws(s.ctx, "t1", 0)

	s.Require().NoError(err)
	s.Len(draws, DefaultLimit)
}

func (s *MemoryHistoryTestSuite) TestRecentDrawsUnknownTable() {
	draws, err := s.repo.RecentDraws(s.ctx, "nowhere", 5)

	s.Require().NoError(err)
	s.Empty(draws)
}

func (s *MemoryHistoryTestSuite) TestPruneBefore() {
	// Setup
	s.record("t1", "2C", 48*time.Hour)
	s.record("t1", "3C", time.Hour)
	s.record("t2", "AS", 72*time.Hour)

	// Execute
	removed, err := s.repo.PruneBefore(s.ctx, s.now.Add(-24*time.Hour))

	// Assert
	s.Require().NoError(err)
	s.Equal(2, removed)
	draws, err := s.repo.RecentDraws(s.ctx, "t1", 10)
	s.Require().NoError(err)
	s.Require().Len(draws, 1)
	s.Equal("3C", draws[0].Card)
	draws, err = s.repo.RecentDraws(s.ctx, "t2", 10)
	s.Require().NoError(err)
	s.Empty(draws)
}

// fakeElasticsearch answers the handful of endpoints the repository uses
type fakeElasticsearch struct {
	mu          sync.Mutex
	indexExists bool
	requests    []string
	bodies      map[string]string
	searchHits  []entities.DrawRecord
	deleted     int
	failIndex   bool
}

func (f *fakeElasticsearch) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := req.Method + " " + req.URL.Path
	f.requests = append(f.requests, key)
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		f.bodies[key] = string(body)
	}

	switch {
	case req.Method == http.MethodHead:
		if f.indexExists {
			return f.respond(http.StatusOK, ""), nil
		}
		return f.respond(http.StatusNotFound, ""), nil
	case req.Method == http.MethodPut && req.URL.Path == "/carddeck_draws":
		f.indexExists = true
		return f.respond(http.StatusOK, `{"acknowledged":true}`), nil
	case strings.Contains(req.URL.Path, "/_doc/"):
		if f.failIndex {
			return f.respond(http.StatusBadRequest, `{"error":"mapper_parsing_exception"}`), nil
		}
		return f.respond(http.StatusCreated, `{"result":"created"}`), nil
	case strings.HasSuffix(req.URL.Path, "/_search"):
		hits := make([]map[string]interface{}, 0, len(f.searchHits))
		for _, h := range f.searchHits {
			hits = append(hits, map[string]interface{}{"_source": h})
		}
		body, _ := json.Marshal(map[string]interface{}{
			"hits": map[string]interface{}{"hits": hits},
		})
		return f.respond(http.StatusOK, string(body)), nil
	case strings.HasSuffix(req.URL.Path, "/_delete_by_query"):
		body, _ := json.Marshal(map[string]int{"deleted": f.deleted})
		return f.respond(http.StatusOK, string(body)), nil
	}
	return f.respond(http.StatusNotFound, `{"error":"unexpected request"}`), nil
}

func (f *fakeElasticsearch) respond(status int, body string) *http.Response {
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type ElasticsearchHistoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	fake *fakeElasticsearch
	repo *ElasticsearchRepository
}

func TestElasticsearchHistorySuite(t *testing.T) {
	suite.Run(t, new(ElasticsearchHistoryTestSuite))
}

func (s *ElasticsearchHistoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fake = &fakeElasticsearch{bodies: make(map[string]string)}

	repo, err := NewElasticsearchRepository(s.ctx, &ElasticsearchConfig{
		URL:       "http://elasticsearch:9200",
		Refresh:   true,
		Transport: s.fake,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *ElasticsearchHistoryTestSuite) TestCreatesIndex() {
	s.Equal("carddeck_draws", s.repo.Index())
	s.Equal([]string{"HEAD /carddeck_draws", "PUT /carddeck_draws"}, s.fake.requests)
	s.Contains(s.fake.bodies["PUT /carddeck_draws"], `"table_id": { "type": "keyword" }`)
}

func (s *ElasticsearchHistoryTestSuite) TestExistingIndexIsKept() {
	fake := &fakeElasticsearch{bodies: make(map[string]string), indexExists: true}

	_, err := NewElasticsearchRepository(s.ctx, &ElasticsearchConfig{
		URL:         "http://elasticsearch:9200",
		IndexPrefix: "carddeck",
		Transport:   fake,
	})

	s.Require().NoError(err)
	s.Equal([]string{"HEAD /carddeck_draws"}, fake.requests)
}

func (s *ElasticsearchHistoryTestSuite) TestRecordDraw() {
	// Setup
	draw := &entities.DrawRecord{
		ID:        "draw-1",
		DeckID:    "deck-1",
		TableID:   "t1",
		Card:      "AS",
		CardKind:  "standard",
		CardValue: 52,
		Remaining: 53,
		DrawnAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	// Execute
	err := s.repo.RecordDraw(s.ctx, draw)

	// Assert
	s.Require().NoError(err)
	body := s.fake.bodies["PUT /carddeck_draws/_doc/draw-1"]
	var indexed entities.DrawRecord
	s.Require().NoError(json.Unmarshal([]byte(body), &indexed))
	s.Equal("AS", indexed.Card)
	s.Equal(52, indexed.CardValue)
}

func (s *ElasticsearchHistoryTestSuite) TestRecordDrawRejected() {
	s.fake.failIndex = true

	err := s.repo.RecordDraw(s.ctx, &entities.DrawRecord{ID: "draw-1", TableID: "t1"})

	s.True(types.IsCardError(err, types.ErrDatabase))
}

func (s *ElasticsearchHistoryTestSuite) TestRecentDraws() {
	// Setup
	s.fake.searchHits = []entities.DrawRecord{
		{ID: "d2", TableID: "t1", Card: "3C"},
		{ID: "d1", TableID: "t1", Card: "2C"},
	}

	// Execute
	draws, err := s.repo.RecentDraws(s.ctx, "t1", 5)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(draws, 2)
	s.Equal("3C", draws[0].Card)
	s.Equal("2C", draws[1].Card)

	var query map[string]interface{}
	for key, body := range s.fake.bodies {
		if strings.HasSuffix(key, "/_search") {
			s.Require().NoError(json.Unmarshal([]byte(body), &query))
		}
	}
	s.Equal(map[string]interface{}{"table_id": "t1"}, query["query"].(map[string]interface{})["term"])
}

func (s *ElasticsearchHistoryTestSuite) TestPruneBefore() {
	s.fake.deleted = 7

	removed, err := s.repo.PruneBefore(s.ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	s.Require().NoError(err)
	s.Equal(7, removed)
	s.Contains(s.fake.bodies["POST /carddeck_draws/_delete_by_query"], `"lt": "2024-03-01T00:00:00Z"`)
}
