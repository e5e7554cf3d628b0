package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/internal/app/middleware"
	"hotelops/internal/app/uow"
	"hotelops/internal/domain/shared/apperr"
)

func staleWrite() error {
	return apperr.Wrap(apperr.KindConflict, "memory: concurrent update detected", uow.ErrConcurrentUpdate)
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0

	err := middleware.Do(context.Background(), 3, func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesStaleWrites(t *testing.T) {
	calls := 0

	err := middleware.Do(context.Background(), 3, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return staleWrite()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_DomainConflictIsNotRetried(t *testing.T) {
	calls := 0

	err := middleware.Do(context.Background(), 3, func(ctx context.Context) error {
		calls++
		return apperr.Conflict("room: already occupied")
	})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, 1, calls)
}

func TestDo_NonConflictAbortsImmediately(t *testing.T) {
	calls := 0
	boom := errors.New("mongo: connection reset")

	err := middleware.Do(context.Background(), 3, func(ctx context.Context) error {
		calls++
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustionWrapsLastConflict(t *testing.T) {
	calls := 0

	err := middleware.Do(context.Background(), 2, func(ctx context.Context) error {
		calls++
		return staleWrite()
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, apperr.IsConflict(err))
}

func TestDo_DefaultsAttempts(t *testing.T) {
	calls := 0

	err := middleware.Do(context.Background(), 0, func(ctx context.Context) error {
		calls++
		return staleWrite()
	})

	require.Error(t, err)
	assert.Equal(t, middleware.DefaultTxAttempts, calls)
}

func TestDo_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := middleware.Do(ctx, 3, func(ctx context.Context) error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
}
