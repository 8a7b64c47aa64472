package waitfor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

func TestPingSucceedsAfterRetries(t *testing.T) {
	calls := 0

	err := pingWithDelays(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errDown
		}

		return nil
	}, time.Millisecond, 10*time.Millisecond)

	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestPingGivesUp(t *testing.T) {
	calls := 0

	err := pingWithDelays(context.Background(), func(context.Context) error {
		calls++

		return errDown
	}, time.Millisecond, 3*time.Millisecond)

	require.ErrorIs(t, err, errDown)
	require.Equal(t, 4, calls)
}

func TestPingStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pingWithDelays(ctx, func(context.Context) error { return errDown }, time.Second, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}
