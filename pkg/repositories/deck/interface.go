package deck

import (
	"context"

	"github.com/fadedpez/carddeck/internal/types"
	"github.com/fadedpez/carddeck/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_deck

// Repository stores one deck per table
type Repository interface {
	// SaveDeck creates or replaces the deck for rec.TableID
	SaveDeck(ctx context.Context, rec *entities.DeckRecord) error

	// GetDeck returns the table's deck, or a DECK_NOT_FOUND error
	GetDeck(ctx context.Context, tableID string) (*entities.DeckRecord, error)

	// DeleteDeck removes the table's deck; deleting a missing deck is not an error
	DeleteDeck(ctx context.Context, tableID string) error

	// ListDecks returns every stored deck
	ListDecks(ctx context.Context) ([]*entities.DeckRecord, error)

	// Close closes any resources used by the repository
	Close() error
}

func notFound(tableID string) error {
	return types.Errorf(types.ErrDeckNotFound, "no deck for table %s", tableID)
}

// clone copies a record so callers never share slices with the store
func clone(rec *entities.DeckRecord) *entities.DeckRecord {
	out := *rec
	out.Initial = append([]entities.CardRecord(nil), rec.Initial...)
	out.Current = append([]entities.CardRecord(nil), rec.Current...)
	return &out
}
