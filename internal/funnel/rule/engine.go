package rule

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	log "github.com/sirupsen/logrus"
)

const LayerName = "rule_engine"

type Verdict struct {
	Rule   string
	Reason string
}

type Engine struct {
	enabled bool
	rules   []Rule

	checked  atomic.Int64
	filtered atomic.Int64
}

// NewEngine sorts rules once by ascending priority.
func NewEngine(enabled bool, rules ...Rule) *Engine {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	for _, r := range sorted {
		log.WithFields(log.Fields{
			"rule":     r.Name(),
			"priority": r.Priority(),
			"enabled":  r.Enabled(),
		}).Info("Rule registered")
	}

	return &Engine{enabled: enabled, rules: sorted}
}

// Evaluate returns the verdict of the first rule that vetoes ev.
// A failing rule counts as no veto.
func (e *Engine) Evaluate(ctx context.Context, ev *domain.ExceptionEvent) (Verdict, bool) {
	if !e.enabled {
		return Verdict{}, false
	}
	e.checked.Add(1)

	for _, r := range e.rules {
		if !r.Enabled() {
			continue
		}

		veto, err := safeFilter(ctx, r, ev)
		if err != nil {
			log.WithFields(log.Fields{
				"rule":        r.Name(),
				"fingerprint": ev.Fingerprint,
				"error":       err,
			}).Error("Rule failed, skipping")
			continue
		}
		if veto {
			e.filtered.Add(1)
			return Verdict{Rule: r.Name(), Reason: r.Reason()}, true
		}
	}
	return Verdict{}, false
}

func safeFilter(ctx context.Context, r Rule, ev *domain.ExceptionEvent) (veto bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			veto, err = false, fmt.Errorf("rule %s panicked: %v", r.Name(), p)
		}
	}()
	return r.ShouldFilter(ctx, ev)
}

func (e *Engine) Stats() (domain.LayerStats, []domain.RuleStats) {
	perRule := make([]domain.RuleStats, 0, len(e.rules))
	for _, r := range e.rules {
		perRule = append(perRule, r.Stats())
	}
	return domain.NewLayerStats(LayerName, e.checked.Load(), e.filtered.Load()), perRule
}

func (e *Engine) ResetStats() {
	e.checked.Store(0)
	e.filtered.Store(0)
	for _, r := range e.rules {
		r.ResetStats()
	}
}

type cacheClearer interface {
	ClearCache()
}

func (e *Engine) ClearCache() {
	for _, r := range e.rules {
		if c, ok := r.(cacheClearer); ok {
			c.ClearCache()
		}
	}
}

type sweeper interface {
	Start()
	Stop()
}

// Start launches the expiry sweepers of rules that keep counters.
func (e *Engine) Start() {
	for _, r := range e.rules {
		if s, ok := r.(sweeper); ok {
			s.Start()
		}
	}
}

func (e *Engine) Stop() {
	for _, r := range e.rules {
		if s, ok := r.(sweeper); ok {
			s.Stop()
		}
	}
}
