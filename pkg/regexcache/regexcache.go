// Package regexcache provides a thread-safe cache for compiled regular
// expressions, so hot paths never recompile the same pattern twice.
//
// Usage:
//
//	re, err := regexcache.Get("pattern")
//	if err != nil {
//	    // handle error
//	}
//	matches := re.FindAllString(input, -1)
package regexcache

import (
	"regexp"
	"sync"
)

// cache holds compiled regular expressions keyed by pattern string.
var cache sync.Map

// Get returns a compiled regexp for the given pattern, compiling and
// caching it on first use. Invalid patterns return an error.
func Get(pattern string) (*regexp.Regexp, error) {
	if cached, ok := cache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	actual, _ := cache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

// MustGet returns a compiled regexp for the given pattern.
// It panics if the pattern is invalid.
func MustGet(pattern string) *regexp.Regexp {
	re, err := Get(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Clear removes all cached regular expressions. Primarily for tests.
func Clear() {
	cache.Range(func(key, _ interface{}) bool {
		cache.Delete(key)
		return true
	})
}

// Size returns the number of cached regular expressions.
func Size() int {
	count := 0
	cache.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}
