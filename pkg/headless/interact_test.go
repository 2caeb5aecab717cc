package headless

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteractivesJSON(t *testing.T) {
	data := `[
		{"selector": "#load-more", "tag": "button", "type": "button", "text": "Load more"},
		{"selector": "#q", "tag": "input", "type": "search-input", "text": ""}
	]`

	elements, err := ParseInteractivesJSON(data)
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, "button", elements[0].Type)
	assert.Equal(t, "search-input", elements[1].Type)
}

func TestParseInteractivesJSONInvalid(t *testing.T) {
	_, err := ParseInteractivesJSON("not json")
	assert.Error(t, err)
}

func TestFixedDelayWaits(t *testing.T) {
	start := time.Now()
	FixedDelay{}.Wait(context.Background(), 20*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFixedDelayFactor(t *testing.T) {
	start := time.Now()
	FixedDelay{Factor: 0.1}.Wait(context.Background(), 200*time.Millisecond)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Less(t, elapsed, 150*time.Millisecond)
}

func TestFixedDelayCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	FixedDelay{}.Wait(ctx, 5*time.Second)
	assert.Less(t, time.Since(start), time.Second)
}
