package history

import (
	"context"
	"time"

	"github.com/fadedpez/carddeck/pkg/entities"
)

// Repository keeps a log of drawn cards
type Repository interface {
	// RecordDraw appends one draw to the log
	RecordDraw(ctx context.Context, draw *entities.DrawRecord) error

	// RecentDraws returns up to limit draws for a table, newest first
	RecentDraws(ctx context.Context, tableID string, limit int) ([]*entities.DrawRecord, error)

	// PruneBefore deletes draws older than cutoff and returns how many were removed
	PruneBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Close closes any resources used by the repository
	Close() error
}

// DefaultLimit is used when RecentDraws is asked for zero or fewer draws
const DefaultLimit = 10
