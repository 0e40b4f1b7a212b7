package command

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/flext-sh/flexstore/storage"
)

// runApp runs a fresh CLI app with the given arguments. Apps are not
// reusable across Run calls, so every invocation builds its own.
func runApp(t *testing.T, args ...string) error {
	t.Helper()
	app := App()
	return app.Run(append([]string{"flexstore"}, args...))
}

// captureStdout runs fn while capturing everything written to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// verifyStore opens the file-backed store at path for assertions about
// state left behind by a command run.
func verifyStore(t *testing.T, path string) *storage.Store {
	t.Helper()

	st, err := storage.NewFileStore(path, "")
	if err != nil {
		t.Fatalf("open store for verification: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
