package broker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fastBackoff = Backoff{Initial: time.Millisecond, Max: 4 * time.Millisecond}

func TestHandleWithRetryRetriesUntilSuccess(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, msg kafka.Message) error {
		calls++
		if calls < 3 {
			return errors.New("redis down")
		}
		return nil
	}

	err := handleWithRetry(context.Background(), kafka.Message{Offset: 7}, handler, fastBackoff, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestHandleWithRetrySkipsMalformed(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, msg kafka.Message) error {
		calls++
		return fmt.Errorf("%w: bad json", ErrMalformedEvent)
	}

	err := handleWithRetry(context.Background(), kafka.Message{}, handler, fastBackoff, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestHandleWithRetryStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	handler := func(ctx context.Context, msg kafka.Message) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("redis down")
	}

	err := handleWithRetry(ctx, kafka.Message{}, handler, fastBackoff, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestBackoffCaps(t *testing.T) {
	b := Backoff{Initial: time.Second, Max: 3 * time.Second}
	assert.Equal(t, time.Second, b.next(0))
	assert.Equal(t, 2*time.Second, b.next(time.Second))
	assert.Equal(t, 3*time.Second, b.next(2*time.Second))
}
