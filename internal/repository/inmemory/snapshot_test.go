package inmemory

import (
	"testing"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
)

func TestSnapshotCacheExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	cache := NewInMemorySnapshotCache()
	cache.now = func() time.Time { return now }

	cache.Set(&trackerdomain.Snapshot{Groups: []trackerdomain.Group{{ID: 1, Name: "Club"}}}, time.Minute)

	snapshot, ok := cache.Get()
	if !ok || len(snapshot.Groups) != 1 {
		t.Fatalf("expected cached snapshot, got %v %v", snapshot, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get(); ok {
		t.Fatalf("expected snapshot to expire")
	}
}

func TestSnapshotCacheReturnsCopies(t *testing.T) {
	cache := NewInMemorySnapshotCache()
	cache.Set(&trackerdomain.Snapshot{Groups: []trackerdomain.Group{{ID: 1, Name: "Club"}}}, time.Minute)

	first, _ := cache.Get()
	first.Groups[0].Name = "changed"

	second, _ := cache.Get()
	if second.Groups[0].Name != "Club" {
		t.Fatalf("expected cached value to be isolated, got %q", second.Groups[0].Name)
	}
}

func TestSnapshotCacheClear(t *testing.T) {
	cache := NewInMemorySnapshotCache()
	cache.Set(&trackerdomain.Snapshot{}, time.Minute)
	cache.Clear()

	if _, ok := cache.Get(); ok {
		t.Fatalf("expected empty cache after clear")
	}

	cache.Set(&trackerdomain.Snapshot{}, 0)
	if _, ok := cache.Get(); ok {
		t.Fatalf("expected zero ttl to skip caching")
	}
}
