package input

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSliceFlagRepeated(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var headers StringSliceFlag
	fs.Var(&headers, "header", "")

	err := fs.Parse([]string{
		"-header", "Authorization: Bearer tok",
		"-header", "Cookie: a=1, b=2",
	})
	require.NoError(t, err)

	assert.Equal(t, StringSliceFlag{
		"Authorization: Bearer tok",
		"Cookie: a=1, b=2",
	}, headers, "values with commas stay whole")
}

func TestStringSliceFlagString(t *testing.T) {
	s := StringSliceFlag{"a", "b"}
	assert.Equal(t, "a, b", s.String())
}
