package ports

import "context"

// RunLock is a non-blocking advisory lock used to skip a reconciliation run
// when one is already in flight. Purely an optimization against duplicate
// work: the engine is safe without it.
type RunLock interface {
	// TryAcquire returns true when the lock was taken, false when another
	// holder has it. Never blocks.
	TryAcquire(ctx context.Context, name string) (bool, error)
	Release(ctx context.Context, name string) error
}
