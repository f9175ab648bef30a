package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobs struct {
	hourly, daily, weekly, sweeps int
}

func (f *fakeJobs) RunHourlyAggregation(context.Context) error {
	f.hourly++
	return nil
}

func (f *fakeJobs) RunDailyAggregation(context.Context) error {
	f.daily++
	return errors.New("db down")
}

func (f *fakeJobs) RunWeeklyCompensation(context.Context) error {
	f.weekly++
	panic("unexpected")
}

func (f *fakeJobs) MarkSLABreaches(context.Context) (int64, error) {
	f.sweeps++
	return 2, nil
}

func trendConfig() config.Trend {
	return config.Trend{
		Enabled:      true,
		HourlySpec:   "5 * * * *",
		DailySpec:    "0 1 * * *",
		WeeklySpec:   "0 2 * * 0",
		SLASweepSpec: "*/10 * * * *",
		AnalysisDays: 7,
	}
}

func TestRegisterJobs(t *testing.T) {
	testCases := []struct {
		name        string
		trend       func(c *config.Trend)
		ticket      config.Ticket
		wantEntries int
		wantErr     bool
	}{
		{name: "everything", trend: func(*config.Trend) {}, ticket: config.Ticket{Enabled: true}, wantEntries: 4},
		{name: "trends off", trend: func(c *config.Trend) { c.Enabled = false }, ticket: config.Ticket{Enabled: true}, wantEntries: 1},
		{name: "tickets off", trend: func(*config.Trend) {}, wantEntries: 3},
		{name: "bad spec", trend: func(c *config.Trend) { c.DailySpec = "every day" }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := trendConfig()
			tc.trend(&cfg)
			s := scheduler.New()

			err := scheduler.RegisterJobs(s, cfg, tc.ticket, &fakeJobs{}, &fakeJobs{})

			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.Entries(), tc.wantEntries)
		})
	}
}

func TestScheduler_JobsContainFailures(t *testing.T) {
	s := scheduler.New()
	jobs := &fakeJobs{}
	require.NoError(t, scheduler.RegisterJobs(s, trendConfig(), config.Ticket{Enabled: true}, jobs, jobs))

	for _, e := range s.Entries() {
		assert.NotPanics(t, e.WrappedJob.Run)
	}

	assert.Equal(t, 1, jobs.hourly)
	assert.Equal(t, 1, jobs.daily)
	assert.Equal(t, 1, jobs.weekly)
	assert.Equal(t, 1, jobs.sweeps)
}

func TestScheduler_StartStop(t *testing.T) {
	s := scheduler.New()
	require.NoError(t, s.Register("noop", "@hourly", func(context.Context) error { return nil }))

	s.Start()
	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Next.IsZero())
	s.Stop()
}

func TestScheduler_Options(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	s := scheduler.New(scheduler.WithLocation(loc), scheduler.WithJobTimeout(time.Minute))

	var deadline time.Time
	require.NoError(t, s.Register("nightly", "0 1 * * *", func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		return nil
	}))

	s.Start()
	defer s.Stop()

	entries := s.Entries()
	require.Len(t, entries, 1)
	next := entries[0].Next.In(loc)
	assert.Equal(t, 1, next.Hour())
	assert.Equal(t, 0, next.Minute())

	started := time.Now()
	entries[0].WrappedJob.Run()
	assert.WithinDuration(t, started.Add(time.Minute), deadline, 5*time.Second)
}
