package webhook

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Deduplicator remembers recently seen update ids. Telegram redelivers an
// update when the previous delivery was not acknowledged in time.
type Deduplicator struct {
	mu   sync.Mutex
	seen *expirable.LRU[int64, struct{}]
}

func NewDeduplicator(cfg DedupConfig) *Deduplicator {
	if cfg.Size <= 0 {
		cfg.Size = defaultDedupSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultDedupTTL
	}
	return &Deduplicator{
		seen: expirable.NewLRU[int64, struct{}](cfg.Size, nil, cfg.TTL),
	}
}

// FirstSeen records id and reports whether it was new.
func (d *Deduplicator) FirstSeen(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seen.Contains(id) {
		return false
	}
	d.seen.Add(id, struct{}{})
	return true
}
