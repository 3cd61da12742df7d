package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	t.Run("order independent", func(t *testing.T) {
		k1 := Key("similar", map[string]any{"a": 1, "b": 2})
		k2 := Key("similar", map[string]any{"b": 2, "a": 1})
		if k1 != k2 {
			t.Errorf("Key() order dependent: %q != %q", k1, k2)
		}
	})

	t.Run("namespace only", func(t *testing.T) {
		if got := Key("trending", nil); got != "trending" {
			t.Errorf("Key() = %q, want %q", got, "trending")
		}
	})

	t.Run("canonical encoding", func(t *testing.T) {
		got := Key("similar", map[string]any{"book_id": "b1", "limit": 10, "min_similarity": 0.3})
		want := "similar:book_id=b1&limit=10&min_similarity=0.3"
		if got != want {
			t.Errorf("Key() = %q, want %q", got, want)
		}
	})

	t.Run("long params collapse to hash", func(t *testing.T) {
		params := map[string]any{"ids": strings.Repeat("x", 200)}
		got := Key("similar", params)
		// md5 hex is 32 chars plus "similar:" prefix
		if len(got) != len("similar:")+32 {
			t.Errorf("Key() length = %d, want fixed-length hash form", len(got))
		}
	})
}

// failingBackend 模拟后端故障，所有操作返回错误。
type failingBackend struct{}

func (f *failingBackend) Name() string { return "failing" }
func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("backend down")
}
func (f *failingBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("backend down")
}
func (f *failingBackend) Delete(ctx context.Context, key string) error {
	return errors.New("backend down")
}
func (f *failingBackend) Clear(ctx context.Context, pattern string) error {
	return errors.New("backend down")
}
func (f *failingBackend) Exists(ctx context.Context, key string) (bool, error) {
	return false, errors.New("backend down")
}
func (f *failingBackend) Close() error { return nil }

func TestManagerRoundTrip(t *testing.T) {
	m := NewManager(NewMemory(10))
	defer m.Close()
	ctx := context.Background()

	type payload struct {
		IDs []string `json:"ids"`
	}

	if ok := m.Set(ctx, "k", payload{IDs: []string{"a", "b"}}, time.Minute); !ok {
		t.Fatal("Set() = false, want true")
	}

	var got payload
	if ok := m.Get(ctx, "k", &got); !ok {
		t.Fatal("Get() = false, want hit")
	}
	if len(got.IDs) != 2 || got.IDs[0] != "a" {
		t.Errorf("Get() payload = %+v", got)
	}

	snap := m.Stats().Snapshot()
	if snap.Hits != 1 || snap.Sets != 1 {
		t.Errorf("stats = %+v, want 1 hit / 1 set", snap)
	}
}

func TestManagerMissCounting(t *testing.T) {
	m := NewManager(NewMemory(10))
	defer m.Close()

	var out string
	if ok := m.Get(context.Background(), "absent", &out); ok {
		t.Fatal("Get(absent) = true, want miss")
	}
	if snap := m.Stats().Snapshot(); snap.Misses != 1 {
		t.Errorf("misses = %d, want 1", snap.Misses)
	}
}

func TestManagerBackendFailureIsNonFatal(t *testing.T) {
	m := NewManager(&failingBackend{})
	ctx := context.Background()

	var out string
	if ok := m.Get(ctx, "k", &out); ok {
		t.Error("Get() = true on failing backend, want miss")
	}
	if ok := m.Set(ctx, "k", "v", time.Minute); ok {
		t.Error("Set() = true on failing backend, want false")
	}
	if ok := m.Delete(ctx, "k"); ok {
		t.Error("Delete() = true on failing backend, want false")
	}
	if m.Exists(ctx, "k") {
		t.Error("Exists() = true on failing backend, want false")
	}

	snap := m.Stats().Snapshot()
	if snap.Errors < 4 {
		t.Errorf("errors = %d, want >= 4", snap.Errors)
	}
}
