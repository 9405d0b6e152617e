// Package scheduler owns the process-local interval timer that periodically
// enqueues the membership status sync task. Exactly one process in the
// deployment should run it; which one is an explicit configuration decision
// (Config.Enabled), not something inferred from how the process was launched.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/leaguebase/leaguebase/internal/application/ports"
)

// Scheduler states. Stopped is terminal: a scheduler is never restarted.
const (
	stateUnstarted int32 = iota
	stateRunning
	stateStopped
)

// Config controls the scheduler.
type Config struct {
	// Enabled marks this process as the one that owns the timer. Worker
	// processes, migrations and one-off tools run with it off.
	Enabled bool
	// Interval between enqueues. Defaults to 12h.
	Interval time.Duration
	// EnqueueTimeout bounds a single enqueue call so a tick never blocks on
	// an unreachable queue. Defaults to 10s.
	EnqueueTimeout time.Duration
}

// Scheduler fires EnqueueMembershipSync on a fixed interval. Construct one at
// startup and keep the handle for Stop at shutdown; there is no package-level
// instance.
type Scheduler struct {
	cfg      Config
	enqueuer ports.TaskEnqueuer
	log      zerolog.Logger
	state    atomic.Int32
	done     chan struct{}
}

// New creates an unstarted scheduler.
func New(cfg Config, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 12 * time.Hour
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 10 * time.Second
	}
	return &Scheduler{
		cfg:      cfg,
		enqueuer: enqueuer,
		log:      log,
		done:     make(chan struct{}),
	}
}

// ShouldRun reports whether this process owns the timer.
func (s *Scheduler) ShouldRun() bool { return s.cfg.Enabled }

// Start launches the timer goroutine. Idempotent: a second call while
// running is a warning-level no-op, and a stopped scheduler never restarts.
// The compare-and-swap on the state enum makes the start-once guard safe even
// if startup code races from multiple goroutines.
func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.log.Debug().Msg("scheduler disabled in this process; not starting")
		return
	}
	if !s.state.CompareAndSwap(stateUnstarted, stateRunning) {
		s.log.Warn().Msg("scheduler already started; ignoring duplicate Start")
		return
	}
	s.log.Info().
		Dur("interval", s.cfg.Interval).
		Msg("membership sync scheduler started")
	go s.run()
}

// Stop ends the timer. Terminal and non-blocking: it does not wait for an
// in-flight reconciliation, which runs on the worker side anyway.
func (s *Scheduler) Stop() {
	if s.state.CompareAndSwap(stateRunning, stateStopped) {
		close(s.done)
		s.log.Info().Msg("membership sync scheduler stopped")
		return
	}
	// Stopping before Start (or twice) just pins the terminal state.
	s.state.CompareAndSwap(stateUnstarted, stateStopped)
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.done:
			return
		}
	}
}

// tick enqueues one sync request, fire-and-forget. A failed enqueue is
// logged and left for the next tick; nothing here may kill the timer
// goroutine.
func (s *Scheduler) tick() {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Interface("panic", rec).Msg("scheduler tick panicked")
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.EnqueueTimeout)
	defer cancel()
	job, err := s.enqueuer.EnqueueMembershipSync(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to enqueue membership sync; will retry next tick")
		return
	}
	s.log.Info().Str("job_id", job.ID).Msg("membership sync enqueued")
}
