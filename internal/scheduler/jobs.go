package scheduler

import (
	"context"

	"github.com/Egor213/ExceptionSieve/internal/config"
)

const (
	JobHourlyAggregation  = "trend-hourly-aggregation"
	JobDailyAggregation   = "trend-daily-aggregation"
	JobWeeklyCompensation = "trend-weekly-compensation"
	JobSLASweep           = "ticket-sla-sweep"
)

type TrendJobs interface {
	RunHourlyAggregation(ctx context.Context) error
	RunDailyAggregation(ctx context.Context) error
	RunWeeklyCompensation(ctx context.Context) error
}

type SLASweeper interface {
	MarkSLABreaches(ctx context.Context) (int64, error)
}

// RegisterJobs wires the rollups when trends are enabled and the SLA sweep when tickets are.
func RegisterJobs(s *Scheduler, trendCfg config.Trend, ticketCfg config.Ticket, trends TrendJobs, tickets SLASweeper) error {
	if trendCfg.Enabled {
		jobs := []struct {
			name string
			spec string
			fn   func(context.Context) error
		}{
			{JobHourlyAggregation, trendCfg.HourlySpec, trends.RunHourlyAggregation},
			{JobDailyAggregation, trendCfg.DailySpec, trends.RunDailyAggregation},
			{JobWeeklyCompensation, trendCfg.WeeklySpec, trends.RunWeeklyCompensation},
		}
		for _, j := range jobs {
			if err := s.Register(j.name, j.spec, j.fn); err != nil {
				return err
			}
		}
	}

	if ticketCfg.Enabled {
		sweep := func(ctx context.Context) error {
			_, err := tickets.MarkSLABreaches(ctx)
			return err
		}
		if err := s.Register(JobSLASweep, trendCfg.SLASweepSpec, sweep); err != nil {
			return err
		}
	}
	return nil
}
