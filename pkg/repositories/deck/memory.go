package deck

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/carddeck/pkg/entities"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of tableID to deck
	decks map[string]*entities.DeckRecord
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		decks: make(map[string]*entities.DeckRecord),
	}
}

// SaveDeck stores a deck for a table
func (r *MemoryRepository) SaveDeck(ctx context.Context, rec *entities.DeckRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	touch(rec, time.Now())
	r.decks[rec.TableID] = clone(rec)
	return nil
}

// GetDeck retrieves a deck for a table
func (r *MemoryRepository) GetDeck(ctx context.Context, tableID string) (*entities.DeckRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.decks[tableID]
	if !exists {
		return nil, notFound(tableID)
	}
	return clone(rec), nil
}

// DeleteDeck removes a table's deck
func (r *MemoryRepository) DeleteDeck(ctx context.Context, tableID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.decks, tableID)
	return nil
}

// ListDecks returns all decks ordered by table ID
func (r *MemoryRepository) ListDecks(ctx context.Context) ([]*entities.DeckRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decks := make([]*entities.DeckRecord, 0, len(r.decks))
	for _, rec := range r.decks {
		decks = append(decks, clone(rec))
	}
	sortByTable(decks)
	return decks, nil
}

// Close is a no-op for memory storage
func (r *MemoryRepository) Close() error {
	return nil
}

// touch stamps the record the way every backend does
func touch(rec *entities.DeckRecord, now time.Time) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
}

func sortByTable(decks []*entities.DeckRecord) {
	sort.Slice(decks, func(i, j int) bool {
		return decks[i].TableID < decks[j].TableID
	})
}
