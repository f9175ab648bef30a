// Package dedup suppresses repeats of a fingerprint inside a time window.
package dedup

import (
	"sync/atomic"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/cache"
	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	log "github.com/sirupsen/logrus"
)

const LayerName = "dedup"

type Entry struct {
	Fingerprint     string
	FirstSeenAt     time.Time
	occurrenceCount atomic.Int64
}

func (e *Entry) OccurrenceCount() int64 {
	return e.occurrenceCount.Load()
}

type Deduplicator struct {
	enabled bool
	entries *cache.Sharded[*Entry]
	now     func() time.Time

	checked  atomic.Int64
	filtered atomic.Int64
}

func New(cfg config.Dedup) *Deduplicator {
	return &Deduplicator{
		enabled: cfg.Enabled,
		entries: cache.New[*Entry](cfg.Window, cfg.MaxEntries, cache.DefaultShards),
		now:     time.Now,
	}
}

// IsDuplicate is false for the first sight of a fingerprint in the window
// and true for every repeat until the entry expires.
func (d *Deduplicator) IsDuplicate(ev *domain.ExceptionEvent) bool {
	if !d.enabled {
		return false
	}
	d.checked.Add(1)

	fresh := &Entry{Fingerprint: ev.Fingerprint, FirstSeenAt: d.now()}
	fresh.occurrenceCount.Store(1)

	entry, loaded := d.entries.GetOrSet(ev.Fingerprint, fresh)
	if !loaded {
		return false
	}

	count := entry.occurrenceCount.Add(1)
	d.filtered.Add(1)
	log.WithFields(log.Fields{
		"fingerprint": ev.Fingerprint,
		"count":       count,
		"first_seen":  entry.FirstSeenAt,
	}).Debug("Duplicate fingerprint suppressed")
	return true
}

// Lookup returns the live entry for fp, if any.
func (d *Deduplicator) Lookup(fp string) (*Entry, bool) {
	return d.entries.Get(fp)
}

func (d *Deduplicator) Stats() domain.DedupStats {
	return domain.DedupStats{
		LayerStats: domain.NewLayerStats(LayerName, d.checked.Load(), d.filtered.Load()),
		Cache:      d.entries.Stats(),
	}
}

func (d *Deduplicator) ResetStats() {
	d.checked.Store(0)
	d.filtered.Store(0)
	d.entries.ResetStats()
}

func (d *Deduplicator) ClearCache() {
	d.entries.Clear()
	log.Info("Dedup cache cleared")
}

func (d *Deduplicator) Start() { d.entries.Start() }

func (d *Deduplicator) Stop() { d.entries.Stop() }
