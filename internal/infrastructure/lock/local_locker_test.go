package lock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warenwelt-api/internal/application/ports"
	"github.com/jhoicas/warenwelt-api/internal/infrastructure/lock"
)

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	l := lock.NewLocalLocker()

	release, err := l.Obtain(ctx, "payout:s1")
	require.NoError(t, err)

	_, err = l.Obtain(ctx, "payout:s1")
	assert.ErrorIs(t, err, ports.ErrLockNotObtained)

	other, err := l.Obtain(ctx, "payout:s2")
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	// Liberar dos veces no suelta un lock ajeno.
	again, err := l.Obtain(ctx, "payout:s1")
	require.NoError(t, err)
	require.NoError(t, release(ctx))
	_, err = l.Obtain(ctx, "payout:s1")
	assert.ErrorIs(t, err, ports.ErrLockNotObtained)
	require.NoError(t, again(ctx))
}
