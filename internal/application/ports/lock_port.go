package ports

import (
	"context"
	"time"
)

// ReleaseFunc libera un lock adquirido.
type ReleaseFunc func(ctx context.Context) error

// Locker lock de exclusión mutua por clave (Redis o en proceso).
// Acquire devuelve domain.ErrConflict si la clave ya está tomada.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}
