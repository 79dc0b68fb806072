// Package cache provides the short lived read-through stores used by the
// permission evaluator. Entries expire by TTL; Delete is the explicit
// invalidation hook.
package cache

import (
	"context"
	"time"
)

const DefaultTTL = 5 * time.Minute

type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V)
	Delete(ctx context.Context, key string)
}
