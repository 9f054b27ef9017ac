package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leatherworks/warehouse-api/internal/domain"
)

func TestLocalLocker_SegundoAcquireEsConflicto(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "invoice:F-1", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "invoice:F-1", time.Minute)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = l.Acquire(ctx, "invoice:F-2", time.Minute)
	assert.NoError(t, err, "otra clave no se bloquea")

	require.NoError(t, release(ctx))
	_, err = l.Acquire(ctx, "invoice:F-1", time.Minute)
	assert.NoError(t, err)
}

func TestLocalLocker_ExpiraPorTTL(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.clock = func() time.Time { return now }
	ctx := context.Background()

	oldRelease, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err, "lock vencido se puede tomar")

	// Liberar el lease viejo no suelta el nuevo.
	require.NoError(t, oldRelease(ctx))
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
