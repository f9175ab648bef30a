// Package rule holds the business rules that can veto an event after dedup.
package rule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
)

type Rule interface {
	Name() string
	Reason() string
	// Priority orders evaluation, lower runs first.
	Priority() int
	Enabled() bool
	ShouldFilter(ctx context.Context, ev *domain.ExceptionEvent) (bool, error)
	Stats() domain.RuleStats
	ResetStats()
}

type Option func(*base)

// WithClock replaces time.Now for rules that depend on the wall clock.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

// base carries what every rule shares: identity and its own counters.
type base struct {
	name     string
	priority int
	enabled  bool
	now      func() time.Time

	checked  atomic.Int64
	filtered atomic.Int64
}

func (b *base) init(name string, priority int, enabled bool, opts []Option) {
	b.name, b.priority, b.enabled, b.now = name, priority, enabled, time.Now
	for _, opt := range opts {
		opt(b)
	}
}

func (b *base) Name() string  { return b.name }
func (b *base) Priority() int { return b.priority }
func (b *base) Enabled() bool { return b.enabled }

func (b *base) Stats() domain.RuleStats {
	return domain.RuleStats{
		LayerStats: domain.NewLayerStats(b.name, b.checked.Load(), b.filtered.Load()),
		Name:       b.name,
		Priority:   b.priority,
		Enabled:    b.enabled,
	}
}

func (b *base) ResetStats() {
	b.checked.Store(0)
	b.filtered.Store(0)
}

func contains(list []string, v string) bool {
	for _, it := range list {
		if it == v {
			return true
		}
	}
	return false
}
