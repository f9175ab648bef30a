// Package ignore is the static block-list run before any stateful layer.
package ignore

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/fingerprint"
	log "github.com/sirupsen/logrus"
)

const LayerName = "ignore"

type Filter struct {
	enabled   bool
	apps      map[string]struct{}
	envs      map[string]struct{}
	types     map[string]struct{}
	packages  []string
	locations []string
	keywords  []string
	statuses  []int

	checked  atomic.Int64
	filtered atomic.Int64
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			set[it] = struct{}{}
		}
	}
	return set
}

func New(cfg config.Ignore) *Filter {
	keywords := make([]string, 0, len(cfg.MessageKeywords))
	for _, k := range cfg.MessageKeywords {
		if k != "" {
			keywords = append(keywords, strings.ToLower(k))
		}
	}

	f := &Filter{
		enabled:   cfg.Enabled,
		apps:      toSet(cfg.AppNames),
		envs:      toSet(cfg.Environments),
		types:     toSet(cfg.ExceptionTypes),
		packages:  cfg.Packages,
		locations: cfg.ErrorLocations,
		keywords:  keywords,
		statuses:  cfg.HTTPStatusCodes,
	}

	log.WithFields(log.Fields{
		"enabled":       cfg.Enabled,
		"apps":          cfg.AppNames,
		"environments":  cfg.Environments,
		"types":         cfg.ExceptionTypes,
		"packages":      cfg.Packages,
		"locations":     cfg.ErrorLocations,
		"keywords":      cfg.MessageKeywords,
		"http_statuses": cfg.HTTPStatusCodes,
	}).Info("Ignore list configured")

	return f
}

// ShouldIgnore reports whether ev is on the block list.
// Any internal failure resolves to false.
func (f *Filter) ShouldIgnore(ev *domain.ExceptionEvent) (ignored bool) {
	if !f.enabled || ev == nil {
		return false
	}
	f.checked.Add(1)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Ignore filter failed, letting event through")
			ignored = false
		}
	}()

	reason, ok := f.match(ev)
	if !ok {
		return false
	}

	f.filtered.Add(1)
	log.WithFields(log.Fields{
		"fingerprint": ev.Fingerprint,
		"type":        ev.ExceptionType,
		"reason":      reason,
	}).Debug("Ignored by block list")
	return true
}

func (f *Filter) match(ev *domain.ExceptionEvent) (string, bool) {
	if _, ok := f.apps[ev.AppName]; ok {
		return "app", true
	}
	if _, ok := f.envs[ev.Environment]; ok {
		return "environment", true
	}
	if f.matchType(ev.ExceptionType) {
		return "exception type", true
	}
	if f.matchPackage(ev.ErrorLocation) {
		return "package", true
	}
	if f.matchLocation(ev.ErrorLocation) {
		return "error location", true
	}
	if f.matchKeyword(ev.Message) {
		return "message keyword", true
	}
	if f.matchStatus(ev.Message) {
		return "http status", true
	}
	return "", false
}

func (f *Filter) matchType(typ string) bool {
	if typ == "" || len(f.types) == 0 {
		return false
	}
	if _, ok := f.types[typ]; ok {
		return true
	}
	_, ok := f.types[fingerprint.SimpleName(typ)]
	return ok
}

func (f *Filter) matchPackage(location string) bool {
	if location == "" || len(f.packages) == 0 {
		return false
	}
	class := fingerprint.ClassOf(location)
	if class == "" {
		return false
	}
	for _, p := range f.packages {
		if p != "" && strings.HasPrefix(class, p) {
			return true
		}
	}
	return false
}

// matchLocation supports exact locations, "*.method" and "Class.*".
func (f *Filter) matchLocation(location string) bool {
	if location == "" {
		return false
	}
	for _, pattern := range f.locations {
		switch {
		case pattern == "":
		case pattern == location:
			return true
		case strings.HasPrefix(pattern, "*."):
			if fingerprint.MethodOf(location) == pattern[2:] {
				return true
			}
		case strings.HasSuffix(pattern, ".*"):
			if strings.HasPrefix(location, pattern[:len(pattern)-1]) {
				return true
			}
		}
	}
	return false
}

func (f *Filter) matchKeyword(message string) bool {
	if message == "" || len(f.keywords) == 0 {
		return false
	}
	lower := strings.ToLower(message)
	for _, k := range f.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func (f *Filter) matchStatus(message string) bool {
	if message == "" {
		return false
	}
	for _, code := range f.statuses {
		c := strconv.Itoa(code)
		if strings.Contains(message, c) || strings.Contains(message, "HTTP "+c) {
			return true
		}
	}
	return false
}

func (f *Filter) Stats() domain.LayerStats {
	return domain.NewLayerStats(LayerName, f.checked.Load(), f.filtered.Load())
}

func (f *Filter) ResetStats() {
	f.checked.Store(0)
	f.filtered.Store(0)
}
