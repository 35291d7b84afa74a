package timers

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack_LogsElapsed(t *testing.T) {
	base := time.Date(2025, 12, 28, 18, 3, 0, 0, time.UTC)
	calls := 0
	now = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(1500 * time.Millisecond)
	}
	defer func() { now = time.Now }()

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	elapsed := Track(ctx, "collect")()

	assert.Equal(t, 1500*time.Millisecond, elapsed)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "collect", entry["timer"])
	assert.Equal(t, float64(1500), entry["duration"])
}
