package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Committing")

	if s.message != "Committing" {
		t.Errorf("message = %q, want %q", s.message, "Committing")
	}
	if len(s.frames) == 0 {
		t.Error("frames is empty")
	}
}

func TestSpinner_StartStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Processing")

	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	// Stop waits for the animation goroutine, so reading the buffer
	// here is safe.
	out := buf.String()
	if !strings.Contains(out, "\r") {
		t.Error("output has no carriage return")
	}
	if !strings.Contains(out, "Processing") {
		t.Error("output has no message")
	}
}

func TestSpinner_Success(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Committing")

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Success("Applied 3 operations")

	out := buf.String()
	if !strings.Contains(out, "✓") {
		t.Error("output has no checkmark")
	}
	if !strings.Contains(out, "Applied 3 operations") {
		t.Error("output has no final message")
	}
}

func TestSpinner_Fail(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Committing")

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Fail("Commit failed")

	out := buf.String()
	if !strings.Contains(out, "✗") {
		t.Error("output has no cross mark")
	}
	if !strings.Contains(out, "Commit failed") {
		t.Error("output has no failure message")
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Test")

	s.Stop()
}

func TestSpinner_DoubleStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Test")

	s.Start()
	s.Stop()
	s.Success("done anyway")

	if !strings.Contains(buf.String(), "done anyway") {
		t.Error("second stop did not print its message")
	}
}

func TestSpinner_StartTwice(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Test")

	s.Start()
	s.Start()
	s.Stop()
}
