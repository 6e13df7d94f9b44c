package schema

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

const patternCacheSize = 256

// patterns holds compiled expressions shared by every schema, so documents
// reloaded from disk do not recompile identical patterns.
var patterns = mustPatternCache(patternCacheSize)

func mustPatternCache(size int) *lru.Cache[string, *regexp.Regexp] {
	c, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		panic(err)
	}
	return c
}

func compilePattern(expr string) (*regexp.Regexp, error) {
	if re, ok := patterns.Get(expr); ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patterns.Add(expr, re)
	return re, nil
}
