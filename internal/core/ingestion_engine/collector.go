package ingestion_engine

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"sync"

	"github.com/markdave123-py/tokenharvest/internal/core"
)

// TokenCollector is a set of token texts iterated in ascending byte order.
// Add is safe for concurrent use.
type TokenCollector struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewTokenCollector() *TokenCollector {
	return &TokenCollector{tokens: make(map[string]struct{})}
}

// Add inserts token. Adding a token that is already present is a no-op.
func (c *TokenCollector) Add(token string) {
	c.mu.Lock()
	c.tokens[token] = struct{}{}
	c.mu.Unlock()
}

func (c *TokenCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens)
}

// Tokens returns a sorted snapshot of the set.
func (c *TokenCollector) Tokens() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Sorted(maps.Keys(c.tokens))
}

// All yields the tokens in ascending order. It may be ranged over any number
// of times and never changes the set.
func (c *TokenCollector) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, t := range c.Tokens() {
			if !yield(t) {
				return
			}
		}
	}
}

// WriteTo writes one token per line in iteration order.
func (c *TokenCollector) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for t := range c.All() {
		m, err := bw.WriteString(t + "\n")
		n += int64(m)
		if err != nil {
			return n, fmt.Errorf("%w: write tokens: %w", core.ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("%w: flush tokens: %w", core.ErrIO, err)
	}
	return n, nil
}
