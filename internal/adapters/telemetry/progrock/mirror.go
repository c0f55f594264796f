package progrock

import (
	"bytes"
	"sync"
)

// lineWriter forwards complete lines to emit. A trailing partial line is kept
// until the next write completes it.
type lineWriter struct {
	mu      sync.Mutex
	prefix  string
	emit    func(string)
	pending []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimRight(w.pending[:i], "\r")
		if len(line) > 0 {
			w.emit(w.prefix + string(line))
		}
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}
