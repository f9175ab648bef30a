package rule

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/cache"
	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	log "github.com/sirupsen/logrus"
)

const FrequencyLimitName = "FrequencyLimitRule"

type frequencyEntry struct {
	firstSeenAt time.Time
	count       atomic.Int64
}

// FrequencyLimit vetoes a fingerprint once it bursts past maxCount inside window.
// Its counters are independent of the dedup layer.
type FrequencyLimit struct {
	base
	window   time.Duration
	maxCount int64
	counts   *cache.Sharded[*frequencyEntry]
}

func NewFrequencyLimit(cfg config.FrequencyLimit, opts ...Option) *FrequencyLimit {
	r := &FrequencyLimit{
		window:   cfg.Window,
		maxCount: cfg.MaxCount,
		counts:   cache.New[*frequencyEntry](cfg.Window, cfg.MaxEntries, cache.DefaultShards),
	}
	r.init(FrequencyLimitName, cfg.Priority, cfg.Enabled, opts)
	return r
}

func (r *FrequencyLimit) Reason() string {
	return fmt.Sprintf("exceeded frequency limit (%d min > %d times)", int(r.window.Minutes()), r.maxCount)
}

func (r *FrequencyLimit) ShouldFilter(_ context.Context, ev *domain.ExceptionEvent) (bool, error) {
	r.checked.Add(1)

	entry, _ := r.counts.GetOrSet(ev.Fingerprint, &frequencyEntry{firstSeenAt: r.now()})
	n := entry.count.Add(1)
	if n <= r.maxCount {
		return false, nil
	}

	r.filtered.Add(1)
	log.WithFields(log.Fields{
		"fingerprint": ev.Fingerprint,
		"count":       n,
		"since":       entry.firstSeenAt,
	}).Debug("Frequency limit exceeded")
	return true, nil
}

func (r *FrequencyLimit) ClearCache() {
	r.counts.Clear()
}

func (r *FrequencyLimit) Start() { r.counts.Start() }

func (r *FrequencyLimit) Stop() { r.counts.Stop() }
