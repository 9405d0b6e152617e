package ports

import "context"

// JobHandle is the opaque acknowledgment returned by an enqueue call.
type JobHandle struct {
	ID string
}

// TaskEnqueuer enqueues async tasks. Enqueue calls are independent; the queue
// does not deduplicate, and the jobs themselves are idempotent.
type TaskEnqueuer interface {
	EnqueueMembershipSync(ctx context.Context) (JobHandle, error)
}
