package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/carddeck/internal/types"
	"github.com/fadedpez/carddeck/pkg/entities"
)

const drawMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"deck_id": { "type": "keyword" },
			"table_id": { "type": "keyword" },
			"card": { "type": "keyword" },
			"card_kind": { "type": "keyword" },
			"card_value": { "type": "integer" },
			"position": { "type": "integer" },
			"reshuffled": { "type": "boolean" },
			"remaining": { "type": "integer" },
			"drawn_at": { "type": "date" }
		}
	}
}`

// ElasticsearchConfig holds configuration options for the Elasticsearch history
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	// Refresh makes each draw searchable before RecordDraw returns
	Refresh bool
	// Transport overrides the HTTP transport, mostly for tests
	Transport http.RoundTripper
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "carddeck",
	}
}

// ElasticsearchRepository indexes draws in Elasticsearch
type ElasticsearchRepository struct {
	client  *elasticsearch.Client
	index   string
	refresh bool
}

// NewElasticsearchRepository connects to Elasticsearch and makes sure the draws index exists
func NewElasticsearchRepository(ctx context.Context, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, types.WrapError(types.ErrNetwork, "error creating Elasticsearch client", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "carddeck"
	}

	r := &ElasticsearchRepository{
		client:  client,
		index:   prefix + "_draws",
		refresh: config.Refresh,
	}
	if err := r.initIndex(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Index returns the name of the draws index
func (r *ElasticsearchRepository) Index() string {
	return r.index
}

func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return types.WrapError(types.ErrNetwork, "error checking draws index", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		if res.IsError() {
			return types.Errorf(types.ErrDatabase, "error checking draws index: %s", res.String())
		}
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(drawMapping)),
	}
	res, err = req.Do(ctx, r.client)
	if err != nil {
		return types.WrapError(types.ErrNetwork, "error creating draws index", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return types.Errorf(types.ErrDatabase, "error creating draws index: %s", res.String())
	}
	return nil
}

// RecordDraw indexes one draw using its ID as the document ID
func (r *ElasticsearchRepository) RecordDraw(ctx context.Context, draw *entities.DrawRecord) error {
	body, err := json.Marshal(draw)
	if err != nil {
		return types.WrapError(types.ErrInternal, "error marshaling draw", err)
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: draw.ID,
		Body:       bytes.NewReader(body),
	}
	if r.refresh {
		req.Refresh = "wait_for"
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return types.WrapError(types.ErrNetwork, "error indexing draw", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return types.Errorf(types.ErrDatabase, "error indexing draw: %s", res.String())
	}
	return nil
}

// RecentDraws searches a table's draws, newest first
func (r *ElasticsearchRepository) RecentDraws(ctx context.Context, tableID string, limit int) ([]*entities.DrawRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"table_id": tableID},
		},
		"sort": []map[string]interface{}{
			{"drawn_at": map[string]interface{}{"order": "desc"}},
		},
	})
	if err != nil {
		return nil, types.WrapError(types.ErrInternal, "error building draw query", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(query)),
		r.client.Search.WithSize(limit),
	)
	if err != nil {
		return nil, types.WrapError(types.ErrNetwork, "error searching draws", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, types.Errorf(types.ErrDatabase, "error searching draws: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source entities.DrawRecord `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, types.WrapError(types.ErrDatabase, "error parsing draws", err)
	}

	draws := make([]*entities.DrawRecord, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		d := hit.Source
		draws = append(draws, &d)
	}
	return draws, nil
}

// PruneBefore deletes every draw older than cutoff
func (r *ElasticsearchRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := fmt.Sprintf(`{
		"query": {
			"range": { "drawn_at": { "lt": %q } }
		}
	}`, cutoff.UTC().Format(time.RFC3339Nano))

	res, err := r.client.DeleteByQuery(
		[]string{r.index},
		bytes.NewReader([]byte(query)),
		r.client.DeleteByQuery.WithContext(ctx),
		r.client.DeleteByQuery.WithConflicts("proceed"),
	)
	if err != nil {
		return 0, types.WrapError(types.ErrNetwork, "error pruning draws", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, types.Errorf(types.ErrDatabase, "error pruning draws: %s", res.String())
	}

	var result struct {
		Deleted int `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return 0, types.WrapError(types.ErrDatabase, "error parsing prune result", err)
	}
	return result.Deleted, nil
}

// Close releases nothing; the client holds no open resources
func (r *ElasticsearchRepository) Close() error {
	return nil
}
