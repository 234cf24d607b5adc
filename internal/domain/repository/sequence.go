package repository

import "context"

// SequenceRepository hands out gap-tolerant counters for human readable numbers.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
