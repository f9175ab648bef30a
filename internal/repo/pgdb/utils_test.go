package pgdb

import (
	"testing"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/repo/repotypes"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecentQueryFilters(t *testing.T) {
	since := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	testCases := []struct {
		name      string
		filter    repotypes.RecentFilter
		wantConds int
		wantLimit uint64
	}{
		{name: "empty", filter: repotypes.RecentFilter{}, wantConds: 0, wantLimit: defaultRecentLimit},
		{name: "app only", filter: repotypes.RecentFilter{AppName: "a"}, wantConds: 1, wantLimit: defaultRecentLimit},
		{name: "full", filter: repotypes.RecentFilter{AppName: "a", Since: since, Limit: 5}, wantConds: 2, wantLimit: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conds, limit := BuildRecentQueryFilters(tc.filter)
			assert.Len(t, conds, tc.wantConds)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}

func TestBuildSeriesQueryFilters_SQL(t *testing.T) {
	from := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 7, 1, 0, 0, 0, time.UTC)

	conds := BuildSeriesQueryFilters("orders", from, to)
	sql, args, err := sq.And(conds).ToSql()

	require.NoError(t, err)
	assert.Equal(t, "(service_name = ? AND stat_date >= ? AND stat_date <= ?)", sql)
	assert.Equal(t, []interface{}{"orders", "2024-03-01", "2024-03-07"}, args)
}

func TestSeverityCountColumns(t *testing.T) {
	cols := severityCountColumns()
	require.Len(t, cols, 5)
	assert.Equal(t, "COUNT(*) FILTER (WHERE severity = 'P0')", cols[0])
}
