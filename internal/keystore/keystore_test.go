package keystore

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	kv, err := NewRedisKV("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return New(kv, "talentdesk_v1_"), s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	type record struct {
		Name  string   `json:"name"`
		Score int      `json:"score"`
		Tags  []string `json:"tags"`
	}

	want := record{Name: "Ada", Score: 92, Tags: []string{"go", "sql"}}
	store.Save(ctx, "candidates", want)

	got := Load(ctx, store, "candidates", record{})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestLoadMissingKeyReturnsFallback(t *testing.T) {
	store, s := setupTestStore(t)
	ctx := context.Background()

	fallback := []string{"seed"}
	got := Load(ctx, store, "never_written", fallback)
	if !reflect.DeepEqual(got, fallback) {
		t.Errorf("expected fallback %v, got %v", fallback, got)
	}

	// Load must not create the key as a side effect.
	if s.Exists("talentdesk_v1_never_written") {
		t.Error("load wrote the missing key")
	}
}

func TestLoadCorruptValueReturnsFallback(t *testing.T) {
	store, s := setupTestStore(t)
	ctx := context.Background()

	s.Set("talentdesk_v1_theme", "{not json")

	got := Load(ctx, store, "theme", "dark")
	if got != "dark" {
		t.Errorf("expected fallback for corrupt value, got %q", got)
	}
}

func TestSaveUnserializableValueDropsWrite(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	store.Save(ctx, "theme", "light")
	// Channels cannot be JSON-encoded; the write must be dropped and the
	// previous value left intact.
	store.Save(ctx, "theme", make(chan int))

	got := Load(ctx, store, "theme", "dark")
	if got != "light" {
		t.Errorf("expected previous value to survive a failed save, got %q", got)
	}
}

func TestSaveStampsLastSync(t *testing.T) {
	store, s := setupTestStore(t)
	ctx := context.Background()

	if s.Exists("talentdesk_v1_last_sync") {
		t.Fatal("last_sync present before any save")
	}

	store.Save(ctx, "requests", []string{})

	raw, err := s.Get("talentdesk_v1_last_sync")
	if err != nil {
		t.Fatalf("last_sync not written: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, raw); err != nil {
		t.Errorf("last_sync is not RFC3339: %q", raw)
	}

	if got := store.LastSync(ctx); got != raw {
		t.Errorf("LastSync returned %q, stored %q", got, raw)
	}
}

func TestLastSyncWithoutWritesReturnsNow(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	got, err := time.Parse(time.RFC3339, store.LastSync(ctx))
	if err != nil {
		t.Fatalf("LastSync not parseable: %v", err)
	}
	if d := time.Since(got); d < 0 || d > time.Minute {
		t.Errorf("LastSync with empty store should be roughly now, got %v ago", d)
	}
}

func TestTrackUsage(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	store.TrackUsage(ctx, "flash")
	store.TrackUsage(ctx, "flash")
	store.TrackUsage(ctx, "pro")

	usage := store.Usage(ctx)
	if usage["flash"] != 2 {
		t.Errorf("flash count = %d, want 2", usage["flash"])
	}
	if usage["pro"] != 1 {
		t.Errorf("pro count = %d, want 1", usage["pro"])
	}
	if usage["veo"] != 0 {
		t.Errorf("veo count = %d, want 0", usage["veo"])
	}
}

func TestClearAllIsIdempotent(t *testing.T) {
	store, s := setupTestStore(t)
	ctx := context.Background()

	store.Save(ctx, "requests", []int{1, 2})
	store.Save(ctx, "candidates", []int{3})
	s.Set("other_app_key", "untouched")

	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if s.Exists("talentdesk_v1_requests") || s.Exists("talentdesk_v1_candidates") || s.Exists("talentdesk_v1_last_sync") {
		t.Error("namespace keys survived ClearAll")
	}
	if !s.Exists("other_app_key") {
		t.Error("ClearAll removed a key outside the namespace")
	}

	// Clearing an already-empty namespace must not error.
	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("second ClearAll failed: %v", err)
	}
}
