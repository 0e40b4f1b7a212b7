package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/flext-sh/flexstore/storage"
)

// BenchmarkMemorySet benchmarks writes into a memory backend at
// various preload sizes.
func BenchmarkMemorySet(b *testing.B) {
	counts := SmallKeyCounts // Use small counts for CI; change to KeyCounts for full test

	for _, preload := range counts {
		b.Run(fmt.Sprintf("preload_%d", preload), func(b *testing.B) {
			ctx := context.Background()
			backend := storage.NewMemoryBackend()
			prefillBackend(b, backend, preload)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if err := backend.Set(ctx, fmt.Sprintf("bench:key-%d", i), "value"); err != nil {
					b.Fatalf("Set failed: %v", err)
				}
			}

			b.StopTimer()
			reportMemory(b, "mem")
		})
	}
}

// BenchmarkMemoryGet benchmarks reads from a memory backend at various
// scales.
func BenchmarkMemoryGet(b *testing.B) {
	runWithKeyCounts(b, SmallKeyCounts, func(b *testing.B, count int) {
		ctx := context.Background()
		backend := storage.NewMemoryBackend()
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

// BenchmarkMemoryDelete benchmarks sequential deletion.
func BenchmarkMemoryDelete(b *testing.B) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()

	keys := make([]string, b.N)
	for i := 0; i < b.N; i++ {
		keys[i] = fmt.Sprintf("del:key-%d", i)
		backend.Set(ctx, keys[i], "value")
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := backend.Delete(ctx, keys[i]); err != nil {
			b.Fatalf("Delete failed: %v", err)
		}
	}
}

// BenchmarkMemoryKeys benchmarks key listing, unfiltered and with a
// glob pattern that keeps one percent of the keys.
func BenchmarkMemoryKeys(b *testing.B) {
	for _, pattern := range []struct {
		name    string
		pattern string
	}{
		{"all", ""},
		{"glob", "bucket42:*"},
	} {
		b.Run(pattern.name, func(b *testing.B) {
			runWithKeyCounts(b, SmallKeyCounts, func(b *testing.B, count int) {
				ctx := context.Background()
				backend := storage.NewMemoryBackend()
				prefillBackend(b, backend, count)

				b.ResetTimer()
				b.ReportAllocs()

				for i := 0; i < b.N; i++ {
					if _, err := backend.Keys(ctx, pattern.pattern); err != nil {
						b.Fatalf("Keys failed: %v", err)
					}
				}
			})
		})
	}
}

// BenchmarkMemoryConcurrent benchmarks mixed concurrent operations.
func BenchmarkMemoryConcurrent(b *testing.B) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	prefillBackend(b, backend, 10000)

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := benchKey(i % 10000)
			switch i % 4 {
			case 0:
				backend.Get(ctx, key)
			case 1:
				backend.Exists(ctx, key)
			case 2:
				backend.Set(ctx, key, "updated")
			case 3:
				backend.Set(ctx, fmt.Sprintf("concurrent:key-%d", i), "new")
			}
			i++
		}
	})
}
