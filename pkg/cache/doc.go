// Package cache provides a small generic LRU memo table.
//
// The validator uses it to keep compiled regular expressions for the regex
// rule, where the same pattern is evaluated repeatedly as a user types.
//
//	patterns := cache.New[string, *regexp.Regexp](256)
//	re, err := patterns.GetOrLoad(expr, func(expr string) (*regexp.Regexp, error) {
//	    return regexp.Compile(expr)
//	})
//
// All methods are safe for concurrent use. Failed loads are remembered like
// successful ones, so an invalid key does not cost a recompute on every call.
package cache
