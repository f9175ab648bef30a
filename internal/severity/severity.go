// Package severity classifies exceptions into P0..P4 and maps them to SLA deadlines.
package severity

import (
	"strings"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
)

const productionEnv = "prod"

const (
	ProblemNullPointer = "null pointer"
	ProblemDatabase    = "database"
	ProblemTimeout     = "timeout"
	ProblemNetwork     = "network"
	ProblemMemory      = "out of memory"
	ProblemParameter   = "parameter"
	ProblemRuntime     = "runtime"
)

var slaByLevel = map[string]time.Duration{
	domain.SeverityP0: 30 * time.Minute,
	domain.SeverityP1: 2 * time.Hour,
	domain.SeverityP2: 24 * time.Hour,
	domain.SeverityP3: 3 * 24 * time.Hour,
	domain.SeverityP4: 7 * 24 * time.Hour,
}

const defaultSLA = 24 * time.Hour

func IsProduction(environment string) bool {
	return strings.EqualFold(environment, productionEnv)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Calculate never ranks a type lower in production than elsewhere.
func Calculate(exceptionType, environment string) string {
	prod := IsProduction(environment)
	pick := func(inProd, otherwise string) string {
		if prod {
			return inProd
		}
		return otherwise
	}

	switch {
	case containsAny(exceptionType, "OutOfMemory", "StackOverflow"):
		return domain.SeverityP0
	case containsAny(exceptionType, "SQLException", "DataAccess"):
		return pick(domain.SeverityP0, domain.SeverityP1)
	case containsAny(exceptionType, "Timeout"):
		return pick(domain.SeverityP1, domain.SeverityP2)
	case containsAny(exceptionType, "NullPointer", "IllegalArgument"):
		return pick(domain.SeverityP2, domain.SeverityP3)
	default:
		return pick(domain.SeverityP3, domain.SeverityP4)
	}
}

func SLA(level string) time.Duration {
	if d, ok := slaByLevel[level]; ok {
		return d
	}
	return defaultSLA
}

func ExpectedResolveAt(level string, from time.Time) time.Time {
	return from.Add(SLA(level))
}

func ProblemType(exceptionType string) string {
	switch {
	case containsAny(exceptionType, "NullPointer"):
		return ProblemNullPointer
	case containsAny(exceptionType, "SQLException", "DataAccess"):
		return ProblemDatabase
	case containsAny(exceptionType, "Timeout"):
		return ProblemTimeout
	case containsAny(exceptionType, "IOException", "Network"):
		return ProblemNetwork
	case containsAny(exceptionType, "OutOfMemory"):
		return ProblemMemory
	case containsAny(exceptionType, "ClassCast", "IllegalArgument"):
		return ProblemParameter
	default:
		return ProblemRuntime
	}
}

// Rank orders levels by urgency, P0 being 0. Unknown levels rank last.
func Rank(level string) int {
	if len(level) == 2 && level[0] == 'P' && level[1] >= '0' && level[1] <= '4' {
		return int(level[1] - '0')
	}
	return 5
}
