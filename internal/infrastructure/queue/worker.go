package queue

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	syncapp "github.com/leaguebase/leaguebase/internal/application/sync"
)

// syncRunLockName keys the advisory run-lock shared by all workers.
const syncRunLockName = "membership_season_sync"

// Worker runs asynq task handlers. The membership sync handler is the only
// consumer of the reconciliation engine.
type Worker struct {
	srv        *asynq.Server
	mux        *asynq.ServeMux
	reconciler *syncapp.Reconciler
	runLock    ports.RunLock
	log        zerolog.Logger
}

// NewWorker creates an asynq server and registers handlers. Call Run() to start.
// runLock may be a noop; skipping a run while another is in flight only saves
// duplicate work, correctness never depends on it.
func NewWorker(redisOpt asynq.RedisClientOpt, reconciler *syncapp.Reconciler, runLock ports.RunLock, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, reconciler: reconciler, runLock: runLock, log: log}
	mux.HandleFunc(TypeMembershipSync, w.handleMembershipSync)
	return w
}

func (w *Worker) handleMembershipSync(ctx context.Context, t *asynq.Task) error {
	acquired, err := w.runLock.TryAcquire(ctx, syncRunLockName)
	if err != nil {
		// Lock trouble is not a reason to skip the run; proceed without it.
		w.log.Warn().Err(err).Msg("membership sync run lock unavailable; running anyway")
	} else if !acquired {
		w.log.Info().Msg("membership sync already in flight; skipping duplicate run")
		syncRuns.WithLabelValues("skipped").Inc()
		return nil
	} else {
		defer func() {
			if e := w.runLock.Release(context.Background(), syncRunLockName); e != nil {
				w.log.Warn().Err(e).Msg("membership sync run lock release failed")
			}
		}()
	}

	summary, err := w.reconciler.Reconcile(ctx)
	if err != nil {
		// Systemic fault: surface to asynq for its retry policy.
		w.log.Error().Err(err).Msg("membership sync task failed")
		syncRuns.WithLabelValues("error").Inc()
		return err
	}
	syncRuns.WithLabelValues("ok").Inc()
	syncMembershipsUpdated.Add(float64(summary.MembershipsUpdated))
	w.log.Info().
		Int("organizations_processed", summary.OrganizationsProcessed).
		Int("memberships_updated", summary.MembershipsUpdated).
		Msg("membership sync task finished")
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
