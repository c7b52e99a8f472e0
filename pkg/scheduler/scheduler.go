package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/carddeck/internal/logging"
)

// Task is a function the scheduler runs once at start and then on every tick
type Task struct {
	Name     string
	Interval time.Duration
	Fn       func(context.Context) error
}

// Scheduler runs a fixed set of tasks on their own tickers until stopped
type Scheduler struct {
	logger *logging.Logger

	mu     sync.Mutex
	tasks  []Task
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates an idle scheduler
func NewScheduler(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default
	}
	return &Scheduler{logger: logger}
}

// AddTask registers a task. Tasks added after Start wait for the next Start.
func (s *Scheduler) AddTask(name string, interval time.Duration, fn func(context.Context) error) {
	s.mu.Lock()
	s.tasks = append(s.tasks, Task{Name: name, Interval: interval, Fn: fn})
	s.mu.Unlock()
}

// Start launches every task. Calling Start on a running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, task)
	}
	s.logger.Info("Scheduler started with %d tasks", len(s.tasks))
}

// Stop cancels every task and blocks until they have returned
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// Running reports whether Start has been called without a matching Stop
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.logger.Debug("Task %s: first run", task.Name)
	s.runOnce(ctx, task)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Task %s stopped", task.Name)
			return
		case <-ticker.C:
			s.logger.Debug("Task %s: tick", task.Name)
			s.runOnce(ctx, task)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, task Task) {
	if err := task.Fn(ctx); err != nil {
		s.logger.Error("Error running task %s: %v", task.Name, err)
	}
}
