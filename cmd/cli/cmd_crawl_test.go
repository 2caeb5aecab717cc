package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterrupted(t *testing.T) {
	assert.True(t, interrupted(context.Canceled))
	assert.True(t, interrupted(context.DeadlineExceeded))
	assert.True(t, interrupted(fmt.Errorf("crawl: %w", context.DeadlineExceeded)))
	assert.False(t, interrupted(errors.New("browser crashed")))
	assert.False(t, interrupted(nil))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "csv", firstNonEmpty("", "csv", "json"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
