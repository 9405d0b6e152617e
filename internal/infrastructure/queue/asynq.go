package queue

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/leaguebase/leaguebase/internal/application/ports"
)

const (
	TypeMembershipSync = "membership:season_sync"
)

// TaskEnqueuer submits tasks to asynq. Each call enqueues independently; the
// queue delivers at-least-once and the sync job is idempotent, so duplicates
// are harmless.
type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) (*TaskEnqueuer, error) {
	client := asynq.NewClient(redisOpt)
	return &TaskEnqueuer{client: client, log: log}, nil
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueMembershipSync(ctx context.Context) (ports.JobHandle, error) {
	task := asynq.NewTask(TypeMembershipSync, nil)
	info, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	if err != nil {
		q.log.Warn().Err(err).Msg("enqueue membership sync failed")
		return ports.JobHandle{}, err
	}
	return ports.JobHandle{ID: info.ID}, nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
