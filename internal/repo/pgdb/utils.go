package pgdb

import (
	"time"

	"github.com/Egor213/ExceptionSieve/internal/repo/repotypes"
	sq "github.com/Masterminds/squirrel"
)

const defaultRecentLimit = 20

var recordColumns = []string{
	"id", "app_name", "environment", "host_name", "exception_type", "message", "stack_trace",
	"error_location", "fingerprint", "severity", "request_method", "request_uri", "client_ip",
	"thread_name", "trace_id", "occurred_at", "ai_processed", "ai_decision", "ai_reason",
}

var ticketColumns = []string{
	"id", "ticket_no", "title", "content", "category", "fingerprint", "service_name", "environment",
	"exception_type", "error_location", "problem_type", "severity", "status", "owner", "assignee",
	"reporter", "occurrence_count", "first_occurred_at", "last_occurred_at", "expected_resolve_at",
	"sla_breached", "progress", "remark", "created_at", "updated_at",
}

func BuildRecentQueryFilters(filter repotypes.RecentFilter) ([]sq.Sqlizer, uint64) {
	conds := []sq.Sqlizer{}

	if filter.AppName != "" {
		conds = append(conds, sq.Eq{"app_name": filter.AppName})
	}
	if !filter.Since.IsZero() && !filter.Since.Equal(time.Unix(0, 0)) {
		conds = append(conds, sq.GtOrEq{"occurred_at": filter.Since})
	}

	limit := uint64(defaultRecentLimit)
	if filter.Limit > 0 {
		limit = uint64(filter.Limit)
	}

	return conds, limit
}

func BuildSeriesQueryFilters(service string, from, to time.Time) []sq.Sqlizer {
	conds := []sq.Sqlizer{}
	if service != "" {
		conds = append(conds, sq.Eq{"service_name": service})
	}
	if !from.IsZero() {
		conds = append(conds, sq.GtOrEq{"stat_date": dateOnly(from)})
	}
	if !to.IsZero() {
		conds = append(conds, sq.LtOrEq{"stat_date": dateOnly(to)})
	}
	return conds
}

func dateOnly(t time.Time) string {
	return t.Format(time.DateOnly)
}

// severityCountColumns renders COUNT(*) FILTER clauses for P0..P4.
func severityCountColumns() []string {
	cols := make([]string, 0, 5)
	for _, sev := range []string{"P0", "P1", "P2", "P3", "P4"} {
		cols = append(cols, "COUNT(*) FILTER (WHERE severity = '"+sev+"')")
	}
	return cols
}
