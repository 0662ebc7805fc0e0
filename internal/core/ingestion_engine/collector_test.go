package ingestion_engine

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/tokenharvest/internal/core"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("sink closed") }

func TestTokenCollector_Add(t *testing.T) {
	t.Run("Should treat repeated adds as one", func(t *testing.T) {
		once := NewTokenCollector()
		once.Add("Apple")

		twice := NewTokenCollector()
		twice.Add("Apple")
		twice.Add("Apple")

		assert.Equal(t, once.Tokens(), twice.Tokens())
		assert.Equal(t, 1, twice.Len())
	})

	t.Run("Should keep tokens that differ only in case", func(t *testing.T) {
		c := NewTokenCollector()
		c.Add("apple")
		c.Add("Apple")

		assert.Equal(t, []string{"Apple", "apple"}, c.Tokens())
	})

	t.Run("Should accept concurrent writers", func(t *testing.T) {
		c := NewTokenCollector()
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					c.Add(fmt.Sprintf("tok%03d", i))
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, c.Len())
	})
}

func TestTokenCollector_All(t *testing.T) {
	t.Run("Should yield strictly ascending tokens without duplicates", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		words := []string{"Wall", "Dave", "Apple", "Julie", "Mr.", "Émile", "zeta", "Zeta", "a", "ä"}
		c := NewTokenCollector()
		for i := 0; i < 200; i++ {
			c.Add(words[rng.Intn(len(words))])
		}

		got := slices.Collect(c.All())
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1], got[i])
		}
	})

	t.Run("Should be restartable", func(t *testing.T) {
		c := NewTokenCollector()
		c.Add("Wall")
		c.Add("Dave")

		first := slices.Collect(c.All())
		second := slices.Collect(c.All())
		assert.Equal(t, []string{"Dave", "Wall"}, first)
		assert.Equal(t, first, second)
	})

	t.Run("Should stop when the consumer breaks", func(t *testing.T) {
		c := NewTokenCollector()
		c.Add("a")
		c.Add("b")
		c.Add("c")

		var seen []string
		for tok := range c.All() {
			seen = append(seen, tok)
			if tok == "b" {
				break
			}
		}
		assert.Equal(t, []string{"a", "b"}, seen)
	})
}

func TestTokenCollector_WriteTo(t *testing.T) {
	t.Run("Should write one token per line in sorted order", func(t *testing.T) {
		c := NewTokenCollector()
		c.Add("Wall")
		c.Add("Apple")
		c.Add("Dave")

		var buf bytes.Buffer
		n, err := c.WriteTo(&buf)
		require.NoError(t, err)
		assert.Equal(t, "Apple\nDave\nWall\n", buf.String())
		assert.Equal(t, int64(buf.Len()), n)
	})

	t.Run("Should write nothing for an empty set", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := NewTokenCollector().WriteTo(&buf)
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("Should report sink failures as io errors", func(t *testing.T) {
		c := NewTokenCollector()
		c.Add("Apple")

		_, err := c.WriteTo(failingWriter{})
		assert.ErrorIs(t, err, core.ErrIO)
	})
}
