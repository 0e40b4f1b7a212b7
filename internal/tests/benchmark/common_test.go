package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/flext-sh/flexstore/storage"
)

// KeyCounts defines the key counts for benchmarking.
var KeyCounts = []int{5000, 10000, 50000, 100000, 500000}

// SmallKeyCounts for quick benchmarks.
var SmallKeyCounts = []int{1000, 5000, 10000}

// BatchSizes defines transaction batch sizes for benchmarking.
var BatchSizes = []int{10, 100, 1000}

// benchKey returns a deterministic key. Keys spread across 100
// namespace-style prefixes so pattern benchmarks have something to
// filter on.
func benchKey(i int) string {
	return fmt.Sprintf("bucket%02d:key-%d", i%100, i)
}

// benchValue returns a value for key i. Every tenth value is a map so
// the workload is not pure strings.
func benchValue(i int) any {
	if i%10 == 0 {
		return map[string]any{"id": float64(i), "name": fmt.Sprintf("item-%d", i)}
	}
	return fmt.Sprintf("value-%d", i)
}

// prefillBackend fills a backend with count keys.
func prefillBackend(b *testing.B, backend storage.Backend, count int) {
	b.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		if err := backend.Set(ctx, benchKey(i), benchValue(i)); err != nil {
			b.Fatalf("prefill Set failed: %v", err)
		}
	}
}

// prefillStore fills a store with count keys.
func prefillStore(b *testing.B, store *storage.Store, count int) {
	b.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		if err := store.Set(ctx, benchKey(i), benchValue(i)); err != nil {
			b.Fatalf("prefill Set failed: %v", err)
		}
	}
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various key counts.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
