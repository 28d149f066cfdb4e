package store

import (
	"context"
	"testing"

	"mission-control/internal/errors"
)

// Both process-local adapters honor the same contract: absent keys return
// ErrDataNotFound and writes overwrite in place.
func TestAdapterContract(t *testing.T) {
	fileAdapter, err := NewFileAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileAdapter: %v", err)
	}

	adapters := map[string]Adapter{
		"memory": NewMemoryAdapter(),
		"file":   fileAdapter,
	}

	for name, adapter := range adapters {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := adapter.Get(ctx, KeyFlightData); !errors.Is(err, errors.ErrDataNotFound) {
				t.Errorf("Get on empty store err = %v, want ErrDataNotFound", err)
			}

			if err := adapter.Set(ctx, KeyFlightData, []byte(`{"v":1}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := adapter.Set(ctx, KeyFlightData, []byte(`{"v":2}`)); err != nil {
				t.Fatalf("second Set: %v", err)
			}

			blob, err := adapter.Get(ctx, KeyFlightData)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(blob) != `{"v":2}` {
				t.Errorf("Get = %s, want the overwritten value", blob)
			}

			// Keys are independent.
			if _, err := adapter.Get(ctx, KeyAlerts); !errors.Is(err, errors.ErrDataNotFound) {
				t.Errorf("unset sibling key err = %v, want ErrDataNotFound", err)
			}

			if err := adapter.Ping(ctx); err != nil {
				t.Errorf("Ping: %v", err)
			}
			if err := adapter.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
		})
	}
}

func TestFileAdapter_FlattensKeySeparators(t *testing.T) {
	dir := t.TempDir()
	adapter, err := NewFileAdapter(dir)
	if err != nil {
		t.Fatalf("NewFileAdapter: %v", err)
	}
	ctx := context.Background()

	if err := adapter.Set(ctx, "a:b/c", []byte("x")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	blob, err := adapter.Get(ctx, "a:b/c")
	if err != nil || string(blob) != "x" {
		t.Errorf("Get = %s, %v", blob, err)
	}

	// A traversal-shaped key stays inside the data directory.
	if err := adapter.Set(ctx, "../escape", []byte("y")); err != nil {
		t.Fatalf("Set traversal key: %v", err)
	}
	if _, err := adapter.Get(ctx, "../escape"); err != nil {
		t.Errorf("Get traversal key: %v", err)
	}
}
