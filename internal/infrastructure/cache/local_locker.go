// Package cache implementa locks de exclusión mutua: Redis (distribuido) o en proceso.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leatherworks/warehouse-api/internal/application/ports"
	"github.com/leatherworks/warehouse-api/internal/domain"
)

var _ ports.Locker = (*LocalLocker)(nil)

// LocalLocker lock en memoria para una sola instancia (REDIS_ADDR vacío).
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]lease
	clock func() time.Time
	seq   uint64
}

type lease struct {
	token   uint64
	expires time.Time
}

// NewLocalLocker construye el lock en proceso.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]lease), clock: time.Now}
}

// Acquire toma la clave por ttl; ErrConflict si otro la tiene y no ha expirado.
func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (ports.ReleaseFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return nil, fmt.Errorf("%w: %s en proceso", domain.ErrConflict, key)
	}
	l.seq++
	token := l.seq
	l.held[key] = lease{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.held[key]; ok && cur.token == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
