package storage

import (
	"context"
	"reflect"
	"testing"
)

func TestMemoryBackend_RoundTrip(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	if err := b.Set(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, found, err := b.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if value != "v1" {
		t.Errorf("value = %v, want v1", value)
	}
}

func TestMemoryBackend_AbsentKey(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	_, found, err := b.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("found = true for absent key, want false")
	}

	exists, err := b.Exists(ctx, "missing")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Exists = true for absent key, want false")
	}

	removed, err := b.Delete(ctx, "missing")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed {
		t.Error("Delete = true for absent key, want false")
	}
}

func TestMemoryBackend_Delete(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	b.Set(ctx, "k1", 1)

	removed, err := b.Delete(ctx, "k1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !removed {
		t.Error("Delete = false for present key, want true")
	}

	_, found, _ := b.Get(ctx, "k1")
	if found {
		t.Error("key still present after Delete")
	}
}

func TestMemoryBackend_Keys(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	for _, key := range []string{"alpha", "amber", "beta"} {
		if err := b.Set(ctx, key, true); err != nil {
			t.Fatalf("Set(%s) failed: %v", key, err)
		}
	}

	t.Run("all keys", func(t *testing.T) {
		keys, err := b.Keys(ctx, "")
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		want := []string{"alpha", "amber", "beta"}
		if !reflect.DeepEqual(keys, want) {
			t.Errorf("Keys = %v, want %v", keys, want)
		}
	})

	t.Run("prefix pattern", func(t *testing.T) {
		keys, err := b.Keys(ctx, "a*")
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		want := []string{"alpha", "amber"}
		if !reflect.DeepEqual(keys, want) {
			t.Errorf("Keys(a*) = %v, want %v", keys, want)
		}
	})
}

func TestMemoryBackend_ClearPrefix(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	b.Set(ctx, "ns1:k", 1)
	b.Set(ctx, "ns1:other", 1)
	b.Set(ctx, "ns2:k", 2)

	if err := b.Clear(ctx, "ns1:"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	keys, _ := b.Keys(ctx, "")
	want := []string{"ns2:k"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys after Clear = %v, want %v", keys, want)
	}

	// Empty prefix clears everything.
	if err := b.Clear(ctx, ""); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	keys, _ = b.Keys(ctx, "")
	if len(keys) != 0 {
		t.Errorf("keys after full Clear = %v, want none", keys)
	}
}

func TestMemoryBackend_Closed(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Idempotent.
	if err := b.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if err := b.Set(ctx, "k", 1); !IsStorageError(err, ErrClosed.Code) {
		t.Errorf("Set after Close = %v, want ErrClosed", err)
	}
	if _, _, err := b.Get(ctx, "k"); !IsStorageError(err, ErrClosed.Code) {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
}

func TestMemoryBackend_IndependentInstances(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryBackend()
	b := NewMemoryBackend()

	a.Set(ctx, "k", "from-a")

	_, found, _ := b.Get(ctx, "k")
	if found {
		t.Error("independent backends share state")
	}
	if a.Len() != 1 || b.Len() != 0 {
		t.Errorf("Len = (%d, %d), want (1, 0)", a.Len(), b.Len())
	}
}
