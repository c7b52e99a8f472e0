package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/carddeck/internal/logging"
)

// DefaultPruneInterval is how often old draws are removed
const DefaultPruneInterval = time.Hour

// Pruner deletes history older than a given age
type Pruner interface {
	PruneHistory(ctx context.Context, maxAge time.Duration) (int, error)
}

// HistoryMaintenanceScheduler prunes the draw history on a timer
type HistoryMaintenanceScheduler struct {
	scheduler *Scheduler
	pruner    Pruner
	retention time.Duration
	logger    *logging.Logger
}

// NewHistoryMaintenanceScheduler keeps draws for retention, checking every interval
func NewHistoryMaintenanceScheduler(pruner Pruner, retention, interval time.Duration, logger *logging.Logger) *HistoryMaintenanceScheduler {
	if logger == nil {
		logger = logging.Default
	}
	if interval <= 0 {
		interval = DefaultPruneInterval
	}

	s := &HistoryMaintenanceScheduler{
		scheduler: NewScheduler(logger),
		pruner:    pruner,
		retention: retention,
		logger:    logger,
	}
	s.scheduler.AddTask("history_pruning", interval, s.prune)
	return s
}

// Start starts pruning in the background
func (s *HistoryMaintenanceScheduler) Start(ctx context.Context) {
	s.scheduler.Start(ctx)
	s.logger.Info("History maintenance scheduler started, keeping draws for %s", s.retention)
}

// Stop stops the maintenance scheduler
func (s *HistoryMaintenanceScheduler) Stop() {
	s.scheduler.Stop()
}

func (s *HistoryMaintenanceScheduler) prune(ctx context.Context) error {
	// Zero retention keeps everything
	if s.retention <= 0 {
		return nil
	}
	removed, err := s.pruner.PruneHistory(ctx, s.retention)
	if err != nil {
		return err
	}
	s.logger.Debug("History pruning removed %d draws", removed)
	return nil
}
