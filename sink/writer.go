package sink

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/arloliu/parcel/types"
)

// Writer writes each value on its own line.
//
// Lines from concurrent workers never interleave within a line; ordering
// across workers is arbitrary.
type Writer struct {
	mu sync.Mutex
	w  *bufio.Writer
}

var _ types.Sink = (*Writer)(nil)

// NewWriter creates a sink writing to w.
//
// Output is buffered; call Flush before exit.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Emit writes value followed by a newline.
func (s *Writer) Emit(_ context.Context, _ int, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf [24]byte
	line := strconv.AppendInt(buf[:0], int64(value), 10)
	line = append(line, '\n')

	// Flush on line boundaries so each underlying write holds whole lines.
	if s.w.Available() < len(line) {
		if err := s.w.Flush(); err != nil {
			return err
		}
	}
	_, err := s.w.Write(line)

	return err
}

// Flush writes any buffered lines to the underlying writer.
func (s *Writer) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Flush()
}
