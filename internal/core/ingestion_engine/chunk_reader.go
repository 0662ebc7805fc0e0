package ingestion_engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/markdave123-py/tokenharvest/internal/core"
)

// ErrInvalidChunkLimit is returned for a chunk limit that cannot hold any text.
var ErrInvalidChunkLimit = errors.New("chunk limit must be positive")

const (
	sentenceTerminators = ".?!"
	wordTerminators     = " \n\t"
)

// Chunk is a boundary-adjusted span of source text.
type Chunk struct {
	Content string
	Final   bool
}

// ChunkSource yields chunks until it returns io.EOF.
type ChunkSource interface {
	Next() (Chunk, error)
}

// ChunkReader cuts a byte source into chunks of at most limit bytes. Each
// chunk ends on the last sentence terminator it contains, or failing that on
// the last whitespace, so that the annotator never sees half a sentence or
// half a word. Text trimmed from the end of a chunk is carried into the next.
//
// A ChunkReader is not safe for concurrent use.
type ChunkReader struct {
	src       io.Reader
	br        *bufio.Reader
	closer    io.Closer
	limit     int
	carry     string
	exhausted bool
	buf       []byte
}

// NewChunkReader wraps r. If r is also an io.Closer it is closed by Close.
func NewChunkReader(r io.Reader, limit int) (*ChunkReader, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkLimit, limit)
	}
	cr := &ChunkReader{src: r, br: bufio.NewReader(r), limit: limit, buf: make([]byte, limit)}
	if c, ok := r.(io.Closer); ok {
		cr.closer = c
	}
	return cr, nil
}

// OpenChunkReader opens the file at path and wraps it in a ChunkReader.
func OpenChunkReader(path string, limit int) (*ChunkReader, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkLimit, limit)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", core.ErrSourceUnavailable, path, err)
	}
	return NewChunkReader(f, limit)
}

// Next returns the next chunk, or io.EOF once the source and the carry-over
// are both exhausted. Calling Next after io.EOF keeps returning io.EOF.
func (r *ChunkReader) Next() (Chunk, error) {
	for {
		candidate, err := r.fill()
		if err != nil {
			return Chunk{}, err
		}
		if candidate == "" {
			return Chunk{}, io.EOF
		}

		content := r.split(candidate)
		// A boundary at position 0 yields an empty emission. The boundary
		// itself has been consumed, so looping always makes progress.
		if content == "" {
			continue
		}
		return Chunk{Content: content, Final: r.exhausted && r.carry == ""}, nil
	}
}

// fill reads up to limit-len(carry) new bytes and returns them appended to
// the carry-over. After a full read it looks one byte ahead, so that input
// ending exactly on the read size is already marked exhausted.
func (r *ChunkReader) fill() (string, error) {
	if r.exhausted {
		return r.carry, nil
	}
	want := r.limit - len(r.carry)
	n, err := io.ReadFull(r.br, r.buf[:want])
	switch {
	case err == nil:
		// Other peek errors surface on the next read.
		if _, perr := r.br.Peek(1); errors.Is(perr, io.EOF) {
			r.exhausted = true
		}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		r.exhausted = true
	default:
		return "", fmt.Errorf("%w: read chunk: %w", core.ErrIO, err)
	}
	return r.carry + string(r.buf[:n]), nil
}

// split picks the emission boundary in candidate and updates the carry-over.
// Sentence terminators always win over whitespace.
func (r *ChunkReader) split(candidate string) string {
	if i := strings.LastIndexAny(candidate, sentenceTerminators); i >= 0 {
		r.carry = candidate[i+1:]
		return candidate[:i+1]
	}
	if i := strings.LastIndexAny(candidate, wordTerminators); i >= 0 {
		r.carry = candidate[i+1:]
		return candidate[:i]
	}

	// No safe split point: emit everything, except a trailing rune that is
	// still incomplete because the rest of its bytes have not been read.
	cut := len(candidate)
	if !r.exhausted {
		cut -= incompleteSuffix(candidate)
	}
	if cut == 0 {
		cut = len(candidate)
	}
	r.carry = candidate[cut:]
	return candidate[:cut]
}

// incompleteSuffix returns how many trailing bytes of s belong to a UTF-8
// sequence that has been started but not finished.
func incompleteSuffix(s string) int {
	for n := 1; n < utf8.UTFMax && n <= len(s); n++ {
		b := s[len(s)-n]
		if b < utf8.RuneSelf {
			return 0
		}
		if utf8.RuneStart(b) {
			if utf8.FullRuneInString(s[len(s)-n:]) {
				return 0
			}
			return n
		}
	}
	return 0
}

// All returns the remaining chunks as a sequence. A read error is yielded
// once and ends the sequence.
func (r *ChunkReader) All() iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		for {
			c, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(c, err) || err != nil {
				return
			}
		}
	}
}

// Rewind restarts the reader from the beginning of a seekable source.
func (r *ChunkReader) Rewind() error {
	s, ok := r.src.(io.Seeker)
	if !ok {
		return fmt.Errorf("%w: source is not seekable", core.ErrIO)
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: rewind: %w", core.ErrIO, err)
	}
	r.br.Reset(r.src)
	r.carry = ""
	r.exhausted = false
	return nil
}

// Close releases the underlying source.
func (r *ChunkReader) Close() error {
	if r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c.Close()
}

// StaticChunks serves a fixed list of chunks. Literal text runs use it to
// bypass chunk reading.
type StaticChunks struct {
	chunks []string
	pos    int
}

func NewStaticChunks(chunks ...string) *StaticChunks {
	return &StaticChunks{chunks: chunks}
}

func (s *StaticChunks) Next() (Chunk, error) {
	if s.pos >= len(s.chunks) {
		return Chunk{}, io.EOF
	}
	c := Chunk{Content: s.chunks[s.pos], Final: s.pos == len(s.chunks)-1}
	s.pos++
	return c, nil
}
