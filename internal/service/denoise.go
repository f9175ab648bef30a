package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/cache"
	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/llm"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	"github.com/Egor213/ExceptionSieve/internal/repo"
	"github.com/Egor213/ExceptionSieve/internal/repo/repotypes"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const DenoiseLayerName = "ai_denoise"

// DenoiseService asks the model whether an event is worth an alert.
// Decisions are cached per fingerprint and concurrent misses share one call.
type DenoiseService struct {
	enabled    bool
	records    repo.ExceptionRecord
	completer  llm.Completer
	decisions  *cache.Sharded[domain.DenoiseDecision]
	inflight   singleflight.Group
	lookback   time.Duration
	maxRecords int
	counters   *metrics.Counters

	checked   atomic.Int64
	cacheHits atomic.Int64
	aiCalls   atomic.Int64
	filtered  atomic.Int64
}

func NewDenoiseService(cfg config.AIDenoise, records repo.ExceptionRecord, completer llm.Completer, cnt *metrics.Counters) *DenoiseService {
	return &DenoiseService{
		enabled:    cfg.Enabled,
		records:    records,
		completer:  completer,
		decisions:  cache.New[domain.DenoiseDecision](cfg.CacheTTL, cfg.CacheMaxEntries, cache.DefaultShards),
		lookback:   cfg.Lookback,
		maxRecords: int(cfg.MaxRecords),
		counters:   cnt,
	}
}

func (s *DenoiseService) Enabled() bool {
	return s.enabled
}

// ShouldAlert never fails: any problem yields a decision that alerts.
func (s *DenoiseService) ShouldAlert(ctx context.Context, ev *domain.ExceptionEvent) domain.DenoiseDecision {
	s.checked.Add(1)

	if d, ok := s.decisions.Get(ev.Fingerprint); ok {
		s.cacheHits.Add(1)
		s.counters.AIDenoise.Inc("cache_hit")
		return s.account(d)
	}

	leader := false
	v, _, _ := s.inflight.Do(ev.Fingerprint, func() (interface{}, error) {
		leader = true
		// followers share this call, so the leader's cancellation must not reach it
		d, cacheable := s.decide(context.WithoutCancel(ctx), ev)
		if cacheable {
			s.decisions.Set(ev.Fingerprint, d)
		}
		return d, nil
	})
	// followers of an in-flight call count as hits
	if !leader {
		s.cacheHits.Add(1)
		s.counters.AIDenoise.Inc("shared")
	}
	return s.account(v.(domain.DenoiseDecision))
}

func (s *DenoiseService) account(d domain.DenoiseDecision) domain.DenoiseDecision {
	if !d.ShouldAlert {
		s.filtered.Add(1)
	}
	return d
}

func (s *DenoiseService) decide(ctx context.Context, ev *domain.ExceptionEvent) (domain.DenoiseDecision, bool) {
	logger := log.WithFields(log.Fields{
		"fingerprint": ev.Fingerprint,
		"type":        ev.ExceptionType,
	})

	since := ev.OccurredAt
	if since.IsZero() {
		since = time.Now()
	}
	history, err := s.records.FindRecent(ctx, repotypes.RecentFilter{
		AppName: ev.AppName,
		Since:   since.Add(-s.lookback),
		Limit:   s.maxRecords,
	})
	if err != nil {
		logger.WithField("error", err).Warn("Cannot load recent exceptions, asking without history")
		history = nil
	}

	prompt := BuildDenoisePrompt(ev, history, s.lookback)

	s.aiCalls.Add(1)
	started := time.Now()
	raw, err := s.completer.Complete(ctx, prompt, denoiseSystemInstruction)
	if err != nil {
		s.counters.AIDenoise.Inc("call_failed")
		logger.WithField("error", err).Error("AI denoise call failed, alerting by default")
		return domain.FallbackDecision("AI call failed, alerting by default: " + err.Error()), false
	}

	d, err := ParseDecision(raw)
	if err != nil {
		s.counters.AIDenoise.Inc("parse_failed")
		logger.WithField("error", err).Error("AI denoise answer unreadable, alerting by default")
		return domain.FallbackDecision("AI response unreadable, alerting by default: " + err.Error()), false
	}

	s.counters.AIDenoise.Inc("decided")
	logger.WithFields(log.Fields{
		"should_alert": d.ShouldAlert,
		"duplicate":    d.IsDuplicate,
		"similarity":   d.SimilarityScore,
		"severity":     d.SuggestedSeverity,
		"took":         time.Since(started),
	}).Info("AI denoise decided")
	return d, true
}

func (s *DenoiseService) Stats() domain.DenoiseStats {
	st := domain.DenoiseStats{
		Checked:   s.checked.Load(),
		CacheHits: s.cacheHits.Load(),
		AICalls:   s.aiCalls.Load(),
		Filtered:  s.filtered.Load(),
		Cache:     s.decisions.Stats(),
	}
	if st.Checked > 0 {
		st.HitRate = float64(st.CacheHits) / float64(st.Checked)
		st.FilterRate = float64(st.Filtered) / float64(st.Checked)
	}
	return st
}

func (s *DenoiseService) ResetStats() {
	s.checked.Store(0)
	s.cacheHits.Store(0)
	s.aiCalls.Store(0)
	s.filtered.Store(0)
	s.decisions.ResetStats()
}

func (s *DenoiseService) ClearCache() {
	s.decisions.Clear()
	log.Info("AI decision cache cleared")
}

func (s *DenoiseService) Start() { s.decisions.Start() }

func (s *DenoiseService) Stop() { s.decisions.Stop() }
