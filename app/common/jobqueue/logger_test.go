package jobqueue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx/logtest"
)

func TestLoggerWarnIsNotSlow(t *testing.T) {
	buf := logtest.NewCollector(t)

	logxLogger{}.Warn("lease expired for ", "worker-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "warn", entry["severity"])
	assert.Equal(t, "lease expired for worker-1", entry["content"])
}
