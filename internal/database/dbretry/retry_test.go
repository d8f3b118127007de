package dbretry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volunthub/reputation/internal/database/dbretry"
)

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: true,
		},
		{
			name: "connection reset",
			err:  errors.New("read tcp: connection reset by peer"),
			want: true,
		},
		{
			name: "broken pipe",
			err:  errors.New("write: broken pipe"),
			want: true,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp: connection refused"),
			want: true,
		},
		{
			name: "io timeout",
			err:  errors.New("read tcp: i/o timeout"),
			want: true,
		},
		{
			name: "unexpected EOF",
			err:  errors.New("unexpected EOF"),
			want: true,
		},
		{
			name: "constraint violation is permanent",
			err:  errors.New("duplicate key value violates unique constraint"),
			want: false,
		},
		{
			name: "plain application error",
			err:  errors.New("invalid action kind"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dbretry.IsRetryableError(tt.err))
		})
	}
}

func TestIsContentionError(t *testing.T) {
	t.Parallel()

	// Only PostgreSQL serialization, deadlock, and lock errors count as
	// contention; generic failures do not.
	assert.False(t, dbretry.IsContentionError(errors.New("connection reset by peer")))
	assert.False(t, dbretry.IsContentionError(context.DeadlineExceeded))
	assert.False(t, dbretry.IsContentionError(nil))
}

func TestOperationSuccess(t *testing.T) {
	t.Parallel()

	calls := 0

	result, err := dbretry.Operation(t.Context(), func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestOperationPermanentErrorStopsImmediately(t *testing.T) {
	t.Parallel()

	appErr := errors.New("invalid action kind")
	calls := 0

	_, err := dbretry.Operation(t.Context(), func(context.Context) (int, error) {
		calls++
		return 0, appErr
	})
	require.ErrorIs(t, err, appErr)
	assert.Equal(t, 1, calls)
}

func TestOperationRetriesTransientError(t *testing.T) {
	t.Parallel()

	calls := 0

	result, err := dbretry.Operation(t.Context(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("read tcp: connection reset by peer")
		}

		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestOperationExhaustsRetries(t *testing.T) {
	t.Parallel()

	transient := errors.New("read tcp: i/o timeout")

	_, err := dbretry.Operation(t.Context(), func(context.Context) (int, error) {
		return 0, transient
	})
	require.ErrorIs(t, err, transient)
	assert.NotErrorIs(t, err, dbretry.ErrContention)
}
