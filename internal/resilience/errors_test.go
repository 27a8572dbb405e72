package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"explicit", NewTransientError(errors.New("x"), 503), true},
		{"wrapped", fmt.Errorf("call: %w", NewTransientError(errors.New("x"), 429)), true},
		{"conn reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"conn refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"message pattern", errors.New("Overloaded, try later"), true},
		{"permanent", errors.New("invalid api key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, CheckStatus("serpapi", http.StatusOK, nil))

	err := CheckStatus("serpapi", http.StatusTooManyRequests, []byte("slow down"))
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Contains(t, err.Error(), "serpapi: unexpected status 429: slow down")

	err = CheckStatus("serpapi", http.StatusUnauthorized, []byte("bad key"))
	require.Error(t, err)
	assert.False(t, IsTransient(err))
}

func TestWithTimeout(t *testing.T) {
	val, err := WithTimeout(context.Background(), time.Second, func(_ context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, val)

	_, err = WithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))

	_, err = WithTimeout(context.Background(), 0, func(ctx context.Context) (int, error) {
		_, ok := ctx.Deadline()
		assert.False(t, ok)
		return 0, errors.New("plain")
	})
	require.Error(t, err)
	assert.False(t, IsTimeout(err))
}
