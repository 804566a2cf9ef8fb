package tracker

import "time"

type SnapshotCache interface {
	Get() (*Snapshot, bool)
	Set(snapshot *Snapshot, ttl time.Duration)
	Clear()
}

type noopCache struct{}

func (noopCache) Get() (*Snapshot, bool) {
	return nil, false
}

func (noopCache) Set(*Snapshot, time.Duration) {}

func (noopCache) Clear() {}
