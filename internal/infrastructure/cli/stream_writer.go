package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/doeshing/codeshai/internal/domain"
)

// StreamWriter prints child process output as it arrives. It is safe for
// the concurrent stdout and stderr readers.
type StreamWriter struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	lines int
}

// NewStreamWriter builds a sink writing stdout lines to out and stderr lines to errOut.
func NewStreamWriter(out, errOut io.Writer) *StreamWriter {
	return &StreamWriter{out: out, err: errOut}
}

// WriteLine implements domain.OutputSink.
func (s *StreamWriter) WriteLine(stream domain.Stream, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lines == 0 {
		fmt.Fprintln(s.out, "\nOutput:")
	}
	s.lines++
	if stream == domain.StreamStderr {
		fmt.Fprintln(s.err, line)
		return
	}
	fmt.Fprintln(s.out, line)
}

// Lines reports how many lines were written.
func (s *StreamWriter) Lines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

var _ domain.OutputSink = (*StreamWriter)(nil)
