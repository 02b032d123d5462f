package runner

import (
	"io"
	"sync"
)

// lockedWriter serializes writes from concurrent runs to one writer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// wrapVerboseWriters makes the verbose writers safe for concurrent runs.
// With a single worker the writers are returned unchanged.
func wrapVerboseWriters(concurrency int, writer, logWriter io.Writer) (io.Writer, io.Writer) {
	if concurrency <= 1 {
		return writer, logWriter
	}
	if writer != nil {
		writer = &lockedWriter{w: writer}
	}
	if logWriter != nil {
		logWriter = &lockedWriter{w: logWriter}
	}
	return writer, logWriter
}
