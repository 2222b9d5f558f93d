package repomanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetries(t *testing.T) {
	t.Helper()
	origAttempts, origBase := connectAttempts, connectBase
	t.Cleanup(func() { connectAttempts, connectBase = origAttempts, origBase })
	connectAttempts, connectBase = 3, time.Millisecond
}

func TestPingWithRetry_EventuallySucceeds(t *testing.T) {
	fastRetries(t)

	calls := 0
	err := pingWithRetry(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	fastRetries(t)

	calls := 0
	err := pingWithRetry(context.Background(), func(context.Context) error {
		calls++
		return errors.New("connection refused")
	})
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 4, calls)
}
