package orderevents

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"VenueHub/app/common/consts/errno"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/x/errors"
)

func TestHandleWithRetryRetriesTransientFailures(t *testing.T) {
	var calls int
	handle := func(_ context.Context, evt OrderPaidEvent) error {
		calls++
		if calls < 3 {
			return stderrors.New("redis unavailable")
		}
		assert.Equal(t, "VH1", evt.OrderNo)
		return nil
	}

	err := handleWithRetry(context.Background(), OrderPaidEvent{OrderNo: "VH1"}, handle, backoff.NewConstantBackOff(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestHandleWithRetryStopsOnCodedError(t *testing.T) {
	var calls int
	handle := func(context.Context, OrderPaidEvent) error {
		calls++
		return errors.New(errno.InvalidParam, "order event without email")
	}

	err := handleWithRetry(context.Background(), OrderPaidEvent{}, handle, backoff.NewConstantBackOff(time.Millisecond))
	var cm *errors.CodeMsg
	require.True(t, stderrors.As(err, &cm))
	assert.Equal(t, errno.InvalidParam, cm.Code)
	assert.Equal(t, 1, calls)
}

func TestHandleWithRetryGivesUpWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var calls int
	handle := func(context.Context, OrderPaidEvent) error {
		calls++
		return stderrors.New("redis unavailable")
	}

	err := handleWithRetry(ctx, OrderPaidEvent{}, handle, backoff.NewConstantBackOff(5*time.Millisecond))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, calls, 1)
}

func TestBackOffNeverExpires(t *testing.T) {
	b := newBackOff()
	for range 50 {
		assert.NotEqual(t, backoff.Stop, b.NextBackOff())
	}
}
