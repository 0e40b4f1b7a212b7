package benchmark

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/flext-sh/flexstore/storage"
)

// BenchmarkFileSet benchmarks writes into a file backend. Every write
// rewrites the whole file, so cost grows with the number of resident
// keys.
func BenchmarkFileSet(b *testing.B) {
	counts := []int{100, 1000, 5000}

	for _, preload := range counts {
		b.Run(fmt.Sprintf("preload_%d", preload), func(b *testing.B) {
			ctx := context.Background()
			path := filepath.Join(b.TempDir(), "bench.json")

			backend, err := storage.NewFileBackend(path)
			if err != nil {
				b.Fatalf("NewFileBackend failed: %v", err)
			}
			defer backend.Close()
			prefillBackend(b, backend, preload)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if err := backend.Set(ctx, "bench:hot-key", i); err != nil {
					b.Fatalf("Set failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkFileGet benchmarks reads from a file backend. Reads are
// served from the in-memory copy, so this should track the memory
// backend closely.
func BenchmarkFileGet(b *testing.B) {
	runWithKeyCounts(b, []int{1000, 5000}, func(b *testing.B, count int) {
		ctx := context.Background()
		path := filepath.Join(b.TempDir(), "bench.json")

		backend, err := storage.NewFileBackend(path)
		if err != nil {
			b.Fatalf("NewFileBackend failed: %v", err)
		}
		defer backend.Close()
		prefillBackend(b, backend, count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			_, found, err := backend.Get(ctx, benchKey(i%count))
			if err != nil {
				b.Fatalf("Get failed: %v", err)
			}
			if !found {
				b.Fatalf("key %q missing", benchKey(i%count))
			}
		}
	})
}

// BenchmarkFileLoad benchmarks opening a populated store file, which
// parses the whole document.
func BenchmarkFileLoad(b *testing.B) {
	runWithKeyCounts(b, []int{1000, 5000, 10000}, func(b *testing.B, count int) {
		path := filepath.Join(b.TempDir(), "bench.json")

		backend, err := storage.NewFileBackend(path)
		if err != nil {
			b.Fatalf("NewFileBackend failed: %v", err)
		}
		prefillBackend(b, backend, count)
		if err := backend.Close(); err != nil {
			b.Fatalf("Close failed: %v", err)
		}

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			reopened, err := storage.NewFileBackend(path)
			if err != nil {
				b.Fatalf("NewFileBackend failed: %v", err)
			}
			reopened.Close()
		}

		b.StopTimer()
		reportMemory(b, "mem")
	})
}
