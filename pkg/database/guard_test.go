package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-gate/config"
	apperrors "campus-gate/pkg/errors"
)

func newTestGuard(maxFailures uint32, timeout time.Duration) *Guard {
	return NewGuard(&config.DatabaseConfig{
		QueryTimeout: timeout,
		Breaker: config.BreakerConfig{
			MaxFailures: maxFailures,
			OpenTimeout: time.Minute,
		},
	}, zap.NewNop())
}

func TestGuard_OpensAfterConsecutiveFailures(t *testing.T) {
	g := newTestGuard(2, time.Second)
	boom := errors.New("connection refused")

	calls := 0
	fail := func(context.Context) error {
		calls++
		return boom
	}

	assert.ErrorIs(t, g.Do(context.Background(), fail), boom)
	assert.ErrorIs(t, g.Do(context.Background(), fail), boom)

	err := g.Do(context.Background(), fail)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.Equal(t, 2, calls, "熔断后不应再调用存储")
	assert.Equal(t, "open", g.State())
}

func TestGuard_BusinessErrorsDoNotTrip(t *testing.T) {
	g := newTestGuard(1, time.Second)

	for i := 0; i < 3; i++ {
		err := g.Do(context.Background(), func(context.Context) error {
			return gorm.ErrRecordNotFound
		})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	}
	err := g.Do(context.Background(), func(context.Context) error {
		return apperrors.ErrDuplicateOutingConflict
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateOutingConflict)
	assert.Equal(t, "closed", g.State())
}

func TestGuard_TimeoutSurfacesAsStorageUnavailable(t *testing.T) {
	g := newTestGuard(5, 10*time.Millisecond)

	err := g.Do(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestGuard_NilPassesThrough(t *testing.T) {
	var g *Guard
	called := false
	require.NoError(t, g.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestWithRetry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, zap.NewNop(), func() error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = withRetry(context.Background(), 2, time.Millisecond, zap.NewNop(), func() error {
		calls++
		return errors.New("still down")
	})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRetry(ctx, 5, time.Hour, zap.NewNop(), func() error {
		calls++
		return errors.New("down")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
