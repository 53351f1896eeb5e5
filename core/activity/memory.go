package activity

import (
	"context"
	"sync"
	"time"
)

// MemoryFeed keeps the last `size` events of each audience in process memory.
type MemoryFeed struct {
	mu     sync.RWMutex
	size   int
	events map[string][]Event // oldest first
}

var _ Feed = (*MemoryFeed)(nil)

func NewMemoryFeed(size int) *MemoryFeed {
	if size <= 0 {
		size = DefaultLimit
	}
	return &MemoryFeed{size: size, events: make(map[string][]Event)}
}

func (f *MemoryFeed) Publish(_ context.Context, evt Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	evts := append(f.events[evt.Audience], evt)
	if len(evts) > f.size {
		evts = evts[len(evts)-f.size:]
	}
	f.events[evt.Audience] = evts
	return nil
}

func (f *MemoryFeed) Recent(_ context.Context, audience string, since time.Time, limit int) ([]Event, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	evts := f.events[audience]
	res := make([]Event, 0, len(evts))
	for i := len(evts) - 1; i >= 0; i-- {
		if limit > 0 && len(res) == limit {
			break
		}
		if !since.IsZero() && !evts[i].At.After(since) {
			break
		}
		res = append(res, evts[i])
	}
	return res, nil
}
