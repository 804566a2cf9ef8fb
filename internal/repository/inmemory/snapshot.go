package inmemory

import (
	"sync"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
)

type InMemorySnapshotCache struct {
	mu   sync.RWMutex
	item *snapshotItem
	now  func() time.Time
}

type snapshotItem struct {
	value     trackerdomain.Snapshot
	expiresAt time.Time
}

func NewInMemorySnapshotCache() *InMemorySnapshotCache {
	return &InMemorySnapshotCache{now: time.Now}
}

func (c *InMemorySnapshotCache) Get() (*trackerdomain.Snapshot, bool) {
	now := c.now()

	c.mu.RLock()
	item := c.item
	c.mu.RUnlock()
	if item == nil {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		if c.item == item {
			c.item = nil
		}
		c.mu.Unlock()
		return nil, false
	}

	value := cloneSnapshot(item.value)
	return &value, true
}

func (c *InMemorySnapshotCache) Set(snapshot *trackerdomain.Snapshot, ttl time.Duration) {
	if snapshot == nil || ttl <= 0 {
		c.Clear()
		return
	}

	c.mu.Lock()
	c.item = &snapshotItem{
		value:     cloneSnapshot(*snapshot),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemorySnapshotCache) Clear() {
	c.mu.Lock()
	c.item = nil
	c.mu.Unlock()
}

func cloneSnapshot(snapshot trackerdomain.Snapshot) trackerdomain.Snapshot {
	return trackerdomain.Snapshot{
		Groups:        append([]trackerdomain.Group(nil), snapshot.Groups...),
		Participants:  append([]trackerdomain.Participant(nil), snapshot.Participants...),
		Contributions: append([]trackerdomain.Contribution(nil), snapshot.Contributions...),
	}
}
