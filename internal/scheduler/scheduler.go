package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of recurring work. Errors are logged and the schedule
// continues; they never terminate the process or deregister the task.
type Task func(ctx context.Context) error

// Scheduler owns a set of named recurring tasks. Registration, cancellation
// and teardown are explicit operations; there is no global state.
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*entry
	wg      sync.WaitGroup
	logger  *zap.Logger

	// runTimeout bounds a single firing. Zero means no bound.
	runTimeout time.Duration
}

type entry struct {
	name   string
	cancel context.CancelFunc
}

// New creates an empty scheduler.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		entries:    make(map[string]*entry),
		logger:     logger,
		runTimeout: time.Minute,
	}
}

// Schedule registers task to run every interval. Registering a name that is
// already active logs a warning and replaces the prior registration — the old
// timer is stopped first so two schedules never fire concurrently for one
// name.
func (s *Scheduler) Schedule(name string, interval time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.entries[name]; ok {
		s.logger.Warn("schedule_replaced",
			zap.String("task", name),
		)
		prior.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.entries[name] = &entry{name: name, cancel: cancel}

	s.wg.Add(1)
	go s.run(ctx, name, interval, task)

	s.logger.Info("schedule_registered",
		zap.String("task", name),
		zap.Duration("interval", interval),
	)
}

// run is the ticker loop for one schedule entry. It exits only on context
// cancellation; task errors and panics are absorbed.
func (s *Scheduler) run(ctx context.Context, name string, interval time.Duration, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(ctx, name, task)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, name string, task Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled_task_panicked",
				zap.String("task", name),
				zap.Any("panic", r),
			)
		}
	}()

	runCtx := ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	if err := task(runCtx); err != nil {
		s.logger.Error("scheduled_task_failed",
			zap.String("task", name),
			zap.Error(err),
		)
	}
}

// Stop cancels and removes one schedule. Unknown names are a no-op.
func (s *Scheduler) Stop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[name]; ok {
		e.cancel()
		delete(s.entries, name)
		s.logger.Info("schedule_stopped", zap.String("task", name))
	}
}

// StopAll cancels every active schedule and waits for in-flight firings to
// finish. Used during shutdown.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	for name, e := range s.entries {
		e.cancel()
		delete(s.entries, name)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler_stopped")
}

// Active returns the names of the currently registered schedules.
func (s *Scheduler) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// RunNow fires a registered-style task once, synchronously, outside its
// schedule. Useful for warm-up runs at startup.
func (s *Scheduler) RunNow(ctx context.Context, name string, task Task) error {
	runCtx := ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}
	if err := task(runCtx); err != nil {
		return fmt.Errorf("task %s: %w", name, err)
	}
	return nil
}
