// Package funnel wires the filtering layers into a single entry point.
package funnel

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	logginghelper "github.com/Egor213/ExceptionSieve/internal/controller/common/logging"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/fingerprint"
	"github.com/Egor213/ExceptionSieve/internal/funnel/dedup"
	"github.com/Egor213/ExceptionSieve/internal/funnel/ignore"
	"github.com/Egor213/ExceptionSieve/internal/funnel/rule"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const unknownLocation = "unknown"

// Processor takes the events that passed every in-memory layer.
type Processor interface {
	Process(ctx context.Context, ev *domain.ExceptionEvent) error
}

// DenoiseLayer exposes the AI layer's counters and cache to the collector.
type DenoiseLayer interface {
	Stats() domain.DenoiseStats
	ResetStats()
	ClearCache()
}

type guardKey struct{}

// Guarded reports whether ctx is already inside Collect.
func Guarded(ctx context.Context) bool {
	v, _ := ctx.Value(guardKey{}).(bool)
	return v
}

func withGuard(ctx context.Context) context.Context {
	return context.WithValue(ctx, guardKey{}, true)
}

type Collector struct {
	ignore    *ignore.Filter
	dedup     *dedup.Deduplicator
	rules     *rule.Engine
	processor Processor
	denoise   DenoiseLayer
	counters  *metrics.Counters
	now       func() time.Time

	collected atomic.Int64
	dropped   atomic.Int64
	survived  atomic.Int64
}

func NewCollector(
	ignoreFilter *ignore.Filter,
	deduplicator *dedup.Deduplicator,
	rules *rule.Engine,
	processor Processor,
	denoise DenoiseLayer,
	cnt *metrics.Counters,
) *Collector {
	return &Collector{
		ignore:    ignoreFilter,
		dedup:     deduplicator,
		rules:     rules,
		processor: processor,
		denoise:   denoise,
		counters:  cnt,
		now:       time.Now,
	}
}

// Collect runs ev through ignore, dedup, rules and the processor, stopping at
// the first layer that filters it. It never fails and never panics.
// A call made with a ctx that is already inside Collect is dropped.
func (c *Collector) Collect(ctx context.Context, ev *domain.ExceptionEvent) {
	if ev == nil {
		return
	}
	if Guarded(ctx) {
		log.WithField("type", ev.ExceptionType).Debug("Nested exception inside the funnel dropped")
		return
	}
	ctx = withGuard(ctx)

	c.collected.Add(1)

	defer func() {
		if r := recover(); r != nil {
			c.counters.FunnelEvents.Inc("collector", "panic")
			logginghelper.LogFailure(ev, "collector", fmt.Errorf("panic: %v", r))
		}
	}()

	if reason, ok := c.normalize(ev); !ok {
		c.dropped.Add(1)
		c.counters.FunnelEvents.Inc("collector", "malformed")
		logginghelper.LogDropped(ev, reason)
		return
	}

	if c.ignore.ShouldIgnore(ev) {
		c.filteredBy(ev, ignore.LayerName, "block list")
		return
	}
	c.counters.FunnelEvents.Inc(ignore.LayerName, "passed")

	if c.dedup.IsDuplicate(ev) {
		c.filteredBy(ev, dedup.LayerName, "duplicate fingerprint")
		return
	}
	c.counters.FunnelEvents.Inc(dedup.LayerName, "passed")

	if verdict, vetoed := c.rules.Evaluate(ctx, ev); vetoed {
		c.filteredBy(ev, rule.LayerName, verdict.Rule+": "+verdict.Reason)
		return
	}
	c.counters.FunnelEvents.Inc(rule.LayerName, "passed")

	c.survived.Add(1)
	logginghelper.LogSurvived(ev)

	if err := c.processor.Process(ctx, ev); err != nil {
		c.counters.FunnelEvents.Inc("processor", "failed")
		logginghelper.LogFailure(ev, "processor", err)
	}
}

func (c *Collector) filteredBy(ev *domain.ExceptionEvent, layer, reason string) {
	c.counters.FunnelEvents.Inc(layer, "filtered")
	logginghelper.LogFiltered(ev, layer, reason)
}

// normalize fills derived fields in place and rejects events that cannot be fingerprinted.
func (c *Collector) normalize(ev *domain.ExceptionEvent) (string, bool) {
	if ev.AppName == "" {
		return "missing app name", false
	}
	if ev.ExceptionType == "" {
		return "missing exception type", false
	}
	if ev.ErrorLocation == "" {
		if ev.ClassName != "" {
			ev.ErrorLocation = fingerprint.Location(ev.ClassName, ev.MethodName, ev.LineNumber)
		} else {
			ev.ErrorLocation = unknownLocation
		}
	}
	if ev.Fingerprint == "" {
		ev.Fingerprint = fingerprint.Generate(ev.ExceptionType, ev.ErrorLocation)
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = c.now()
	}
	return "", true
}

func (c *Collector) Stats() domain.FunnelStats {
	ruleLayer, perRule := c.rules.Stats()
	st := domain.FunnelStats{
		Collected: c.collected.Load(),
		Dropped:   c.dropped.Load(),
		Survived:  c.survived.Load(),
		Ignore:    c.ignore.Stats(),
		Dedup:     c.dedup.Stats(),
		RuleLayer: ruleLayer,
		Rules:     perRule,
	}
	if c.denoise != nil {
		st.Denoise = c.denoise.Stats()
	}
	return st
}

func (c *Collector) ResetStats() {
	c.collected.Store(0)
	c.dropped.Store(0)
	c.survived.Store(0)
	c.ignore.ResetStats()
	c.dedup.ResetStats()
	c.rules.ResetStats()
	if c.denoise != nil {
		c.denoise.ResetStats()
	}
	log.Info("Funnel statistics reset")
}

func (c *Collector) ClearCache() {
	c.dedup.ClearCache()
	c.rules.ClearCache()
	if c.denoise != nil {
		c.denoise.ClearCache()
	}
}
