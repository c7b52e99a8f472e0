package history

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/carddeck/pkg/entities"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of tableID to draws, oldest first
	draws map[string][]*entities.DrawRecord
}

// NewMemoryRepository creates a new in-memory history
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		draws: make(map[string][]*entities.DrawRecord),
	}
}

// RecordDraw appends a draw to its table's log
func (r *MemoryRepository) RecordDraw(ctx context.Context, draw *entities.DrawRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := *draw
	r.draws[draw.TableID] = append(r.draws[draw.TableID], &d)
	return nil
}

// RecentDraws returns the newest draws first
func (r *MemoryRepository) RecentDraws(ctx context.Context, tableID string, limit int) ([]*entities.DrawRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultLimit
	}

	draws := r.draws[tableID]
	out := make([]*entities.DrawRecord, 0, min(limit, len(draws)))
	for i := len(draws) - 1; i >= 0 && len(out) < limit; i-- {
		d := *draws[i]
		out = append(out, &d)
	}
	return out, nil
}

// PruneBefore drops draws older than cutoff
func (r *MemoryRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for tableID, draws := range r.draws {
		kept := draws[:0]
		for _, d := range draws {
			if d.DrawnAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, d)
		}
		if len(kept) == 0 {
			delete(r.draws, tableID)
		} else {
			r.draws[tableID] = kept
		}
	}
	return removed, nil
}

// Close is a no-op for memory storage
func (r *MemoryRepository) Close() error {
	return nil
}
