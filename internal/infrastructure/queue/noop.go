package queue

import (
	"context"

	"github.com/google/uuid"

	"github.com/leaguebase/leaguebase/internal/application/ports"
)

// NoopEnqueuer is used when Redis/asynq is not configured. Accepts and drops
// tasks, returning a synthetic job id so callers still get an acknowledgment.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueMembershipSync(ctx context.Context) (ports.JobHandle, error) {
	return ports.JobHandle{ID: uuid.NewString()}, nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
