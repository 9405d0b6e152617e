package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguebase/leaguebase/internal/application/ports"
)

type countingEnqueuer struct {
	calls     atomic.Int64
	err       atomic.Pointer[error]
	panicOnce atomic.Bool
}

func (c *countingEnqueuer) setErr(err error) { c.err.Store(&err) }

func (c *countingEnqueuer) EnqueueMembershipSync(ctx context.Context) (ports.JobHandle, error) {
	if c.panicOnce.CompareAndSwap(true, false) {
		panic("queue client blew up")
	}
	c.calls.Add(1)
	if p := c.err.Load(); p != nil && *p != nil {
		return ports.JobHandle{}, *p
	}
	return ports.JobHandle{ID: "job-1"}, nil
}

func waitForCalls(t *testing.T, c *countingEnqueuer, n int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.calls.Load() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("enqueuer reached %d calls, want at least %d", c.calls.Load(), n)
}

func TestSchedulerEnqueuesOnInterval(t *testing.T) {
	enq := &countingEnqueuer{}
	s := New(Config{Enabled: true, Interval: 10 * time.Millisecond}, enq, zerolog.Nop())
	s.Start()
	defer s.Stop()

	waitForCalls(t, enq, 3)
}

func TestSchedulerDisabledDoesNotStart(t *testing.T) {
	enq := &countingEnqueuer{}
	s := New(Config{Enabled: false, Interval: 5 * time.Millisecond}, enq, zerolog.Nop())
	assert.False(t, s.ShouldRun())
	s.Start()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, enq.calls.Load())
	s.Stop()
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	enq := &countingEnqueuer{}
	s := New(Config{Enabled: true, Interval: time.Hour}, enq, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Start()
		}()
	}
	wg.Wait()

	// Exactly one timer goroutine owns the done channel; a single Stop must
	// terminate it without a double-close panic.
	s.Stop()
	s.Stop()
}

func TestSchedulerStopIsTerminal(t *testing.T) {
	enq := &countingEnqueuer{}
	s := New(Config{Enabled: true, Interval: 10 * time.Millisecond}, enq, zerolog.Nop())
	s.Start()
	waitForCalls(t, enq, 1)
	s.Stop()

	settled := enq.calls.Load()
	s.Start()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, settled, enq.calls.Load(), "stopped scheduler must not restart")
}

func TestSchedulerStopBeforeStart(t *testing.T) {
	enq := &countingEnqueuer{}
	s := New(Config{Enabled: true, Interval: 10 * time.Millisecond}, enq, zerolog.Nop())
	s.Stop()
	s.Start()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, enq.calls.Load())
}

func TestSchedulerSurvivesEnqueueErrors(t *testing.T) {
	enq := &countingEnqueuer{}
	enq.setErr(errors.New("redis gone"))
	s := New(Config{Enabled: true, Interval: 10 * time.Millisecond}, enq, zerolog.Nop())
	s.Start()
	defer s.Stop()

	waitForCalls(t, enq, 2)
	enq.setErr(nil)
	before := enq.calls.Load()
	waitForCalls(t, enq, before+1)
}

func TestSchedulerSurvivesEnqueuePanic(t *testing.T) {
	enq := &countingEnqueuer{}
	enq.panicOnce.Store(true)
	s := New(Config{Enabled: true, Interval: 10 * time.Millisecond}, enq, zerolog.Nop())
	s.Start()
	defer s.Stop()

	// First tick panics inside the enqueuer; the timer keeps firing.
	waitForCalls(t, enq, 2)
}

func TestSchedulerDefaults(t *testing.T) {
	s := New(Config{Enabled: true}, &countingEnqueuer{}, zerolog.Nop())
	require.Equal(t, 12*time.Hour, s.cfg.Interval)
	require.Equal(t, 10*time.Second, s.cfg.EnqueueTimeout)
}
