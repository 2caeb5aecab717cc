// Package input provides flag helpers shared across subcommands.
package input

import "strings"

// StringSliceFlag implements flag.Value for repeated string flags.
// Unlike comma-splitting slice flags, values are kept whole so header
// values containing commas survive.
type StringSliceFlag []string

func (s *StringSliceFlag) String() string {
	return strings.Join(*s, ", ")
}

func (s *StringSliceFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}
