package rule

import (
	"context"
	"strings"

	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/severity"
)

const EnvironmentName = "EnvironmentRule"

// Environment drops configured severities per environment class.
type Environment struct {
	base
	testFilter []string
	prodFilter []string
}

func NewEnvironment(cfg config.EnvironmentRule, opts ...Option) *Environment {
	r := &Environment{
		testFilter: cfg.TestFilterSeverities,
		prodFilter: cfg.ProdFilterSeverities,
	}
	r.init(EnvironmentName, cfg.Priority, cfg.Enabled, opts)
	return r
}

func (r *Environment) Reason() string {
	return "severity suppressed for this environment"
}

func isTestEnv(env string) bool {
	env = strings.ToLower(env)
	return strings.Contains(env, "test") || strings.Contains(env, "dev") || strings.Contains(env, "local")
}

func isProdEnv(env string) bool {
	return strings.Contains(strings.ToLower(env), "prod")
}

func (r *Environment) ShouldFilter(_ context.Context, ev *domain.ExceptionEvent) (bool, error) {
	r.checked.Add(1)
	if ev.Environment == "" {
		return false, nil
	}

	var suppressed []string
	switch {
	case isTestEnv(ev.Environment):
		suppressed = r.testFilter
	case isProdEnv(ev.Environment):
		suppressed = r.prodFilter
	default:
		return false, nil
	}

	if !contains(suppressed, severity.Calculate(ev.ExceptionType, ev.Environment)) {
		return false, nil
	}
	r.filtered.Add(1)
	return true, nil
}
