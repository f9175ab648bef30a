package severity_test

import (
	"testing"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/severity"
	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	testCases := []struct {
		name          string
		exceptionType string
		environment   string
		want          string
	}{
		{name: "oom anywhere", exceptionType: "java.lang.OutOfMemoryError", environment: "test", want: domain.SeverityP0},
		{name: "stack overflow", exceptionType: "java.lang.StackOverflowError", environment: "prod", want: domain.SeverityP0},
		{name: "sql prod", exceptionType: "java.sql.SQLException", environment: "prod", want: domain.SeverityP0},
		{name: "sql test", exceptionType: "java.sql.SQLException", environment: "test", want: domain.SeverityP1},
		{name: "data access prod upper case", exceptionType: "DataAccessException", environment: "PROD", want: domain.SeverityP0},
		{name: "timeout prod", exceptionType: "SocketTimeoutException", environment: "prod", want: domain.SeverityP1},
		{name: "timeout dev", exceptionType: "SocketTimeoutException", environment: "dev", want: domain.SeverityP2},
		{name: "npe prod", exceptionType: "NullPointerException", environment: "prod", want: domain.SeverityP2},
		{name: "illegal argument dev", exceptionType: "IllegalArgumentException", environment: "dev", want: domain.SeverityP3},
		{name: "other prod", exceptionType: "*errors.errorString", environment: "prod", want: domain.SeverityP3},
		{name: "other local", exceptionType: "*errors.errorString", environment: "local", want: domain.SeverityP4},
		{name: "production is not prod", exceptionType: "java.sql.SQLException", environment: "production", want: domain.SeverityP1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, severity.Calculate(tc.exceptionType, tc.environment))
		})
	}
}

func TestCalculate_ProductionNeverLessUrgent(t *testing.T) {
	types := []string{
		"java.lang.OutOfMemoryError", "java.sql.SQLException", "TimeoutException",
		"NullPointerException", "IllegalArgumentException", "RuntimeException", "",
	}
	for _, typ := range types {
		prod := severity.Rank(severity.Calculate(typ, "prod"))
		test := severity.Rank(severity.Calculate(typ, "test"))
		assert.LessOrEqual(t, prod, test, typ)
	}
}

func TestExpectedResolveAt(t *testing.T) {
	from := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		level string
		want  time.Duration
	}{
		{domain.SeverityP0, 30 * time.Minute},
		{domain.SeverityP1, 2 * time.Hour},
		{domain.SeverityP2, 24 * time.Hour},
		{domain.SeverityP3, 72 * time.Hour},
		{domain.SeverityP4, 168 * time.Hour},
		{"P9", 24 * time.Hour},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			assert.Equal(t, from.Add(tc.want), severity.ExpectedResolveAt(tc.level, from))
		})
	}
}

func TestProblemType(t *testing.T) {
	assert.Equal(t, severity.ProblemNullPointer, severity.ProblemType("java.lang.NullPointerException"))
	assert.Equal(t, severity.ProblemDatabase, severity.ProblemType("org.springframework.dao.DataAccessException"))
	assert.Equal(t, severity.ProblemTimeout, severity.ProblemType("context.DeadlineExceeded Timeout"))
	assert.Equal(t, severity.ProblemNetwork, severity.ProblemType("java.io.IOException"))
	assert.Equal(t, severity.ProblemMemory, severity.ProblemType("java.lang.OutOfMemoryError"))
	assert.Equal(t, severity.ProblemParameter, severity.ProblemType("java.lang.ClassCastException"))
	assert.Equal(t, severity.ProblemRuntime, severity.ProblemType("*fs.PathError"))
}
