package regexcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCachesCompiledPattern(t *testing.T) {
	Clear()

	re1, err := Get(`^/api/`)
	require.NoError(t, err)
	re2, err := Get(`^/api/`)
	require.NoError(t, err)

	assert.Same(t, re1, re2)
	assert.Equal(t, 1, Size())
}

func TestGetInvalidPattern(t *testing.T) {
	Clear()

	_, err := Get(`[unclosed`)
	assert.Error(t, err)
	assert.Equal(t, 0, Size())
}

func TestMustGetPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustGet(`(`)
	})
}

func TestConcurrentGet(t *testing.T) {
	Clear()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			re, err := Get(`\d+`)
			assert.NoError(t, err)
			assert.True(t, re.MatchString("42"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, Size())
}
