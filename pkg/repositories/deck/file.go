package deck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fadedpez/carddeck/internal/types"
	"github.com/fadedpez/carddeck/pkg/entities"
)

// FileRepository keeps every deck in a single JSON file
type FileRepository struct {
	path  string
	mu    sync.RWMutex
	decks map[string]*entities.DeckRecord
}

// NewFileRepository creates a file repository, loading any decks already saved at path
func NewFileRepository(path string) (*FileRepository, error) {
	r := &FileRepository{
		path:  path,
		decks: make(map[string]*entities.DeckRecord),
	}

	if err := r.load(); err != nil {
		return nil, types.WrapError(types.ErrDatabase, "failed to load decks", err)
	}

	return r, nil
}

// SaveDeck saves or updates a table's deck
func (r *FileRepository) SaveDeck(ctx context.Context, rec *entities.DeckRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	touch(rec, time.Now())
	previous, had := r.decks[rec.TableID]
	r.decks[rec.TableID] = clone(rec)

	if err := r.save(); err != nil {
		if had {
			r.decks[rec.TableID] = previous
		} else {
			delete(r.decks, rec.TableID)
		}
		return types.WrapError(types.ErrDatabase, "failed to save deck", err)
	}
	return nil
}

// GetDeck loads a table's deck
func (r *FileRepository) GetDeck(ctx context.Context, tableID string) (*entities.DeckRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.decks[tableID]
	if !ok {
		return nil, notFound(tableID)
	}
	return clone(rec), nil
}

// DeleteDeck deletes a table's deck
func (r *FileRepository) DeleteDeck(ctx context.Context, tableID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.decks[tableID]; !ok {
		return nil
	}
	delete(r.decks, tableID)
	if err := r.save(); err != nil {
		return types.WrapError(types.ErrDatabase, "failed to delete deck", err)
	}
	return nil
}

// ListDecks lists all decks
func (r *FileRepository) ListDecks(ctx context.Context) ([]*entities.DeckRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decks := make([]*entities.DeckRecord, 0, len(r.decks))
	for _, rec := range r.decks {
		decks = append(decks, clone(rec))
	}
	sortByTable(decks)
	return decks, nil
}

// Close flushes nothing; every write is already on disk
func (r *FileRepository) Close() error {
	return nil
}

func (r *FileRepository) load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, &r.decks)
}

func (r *FileRepository) save() error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(r.decks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal decks: %w", err)
	}

	// Write to a temp file, then rename over the old one
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}
