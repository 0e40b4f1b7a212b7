// Package output provides output formatting for the flexstore CLI.
package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner displays a progress animation for operations without a known
// total, such as committing a transaction batch.
type Spinner struct {
	w        io.Writer
	message  string
	frames   []string
	interval time.Duration

	mu      sync.Mutex
	started bool
	done    chan struct{}
	idle    chan struct{}
	once    sync.Once
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:        w,
		message:  message,
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 100 * time.Millisecond,
		done:     make(chan struct{}),
		idle:     make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine. Calling Start
// twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.idle)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// stop halts the animation and waits for the goroutine to exit so the
// final line cannot interleave with a frame write.
func (s *Spinner) stop() {
	s.once.Do(func() { close(s.done) })

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.idle
	}
}

// Stop halts the spinner and clears the line.
func (s *Spinner) Stop() {
	s.stop()
	fmt.Fprint(s.w, "\r\033[K")
}

// Success halts the spinner and prints a checkmark with the message.
func (s *Spinner) Success(message string) {
	s.stop()
	fmt.Fprintf(s.w, "\r✓ %s\n", message)
}

// Fail halts the spinner and prints a cross with the message.
func (s *Spinner) Fail(message string) {
	s.stop()
	fmt.Fprintf(s.w, "\r✗ %s\n", message)
}
