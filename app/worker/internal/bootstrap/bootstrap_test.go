package bootstrap

import (
	"testing"
	"time"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/worker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOptionsDefaultsAndOverrides(t *testing.T) {
	got := QueueOptions(config.Config{
		Queues: map[string]config.QueueConf{
			biz.QueuePayments: {Concurrency: 3, MaxCompleted: 50, ShutdownSeconds: 1},
		},
	})
	require.Len(t, got, 3)

	assert.Equal(t, 3, got[biz.QueuePayments].Concurrency)
	assert.Equal(t, 50, got[biz.QueuePayments].MaxCompleted)
	assert.Equal(t, time.Second, got[biz.QueuePayments].ShutdownTimeout)

	assert.Equal(t, 20, got[biz.QueueActivities].Concurrency)
	assert.Equal(t, 5000, got[biz.QueueNotifications].MaxCompleted)
}
