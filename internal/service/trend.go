package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	"github.com/Egor213/ExceptionSieve/internal/notify"
	"github.com/Egor213/ExceptionSieve/internal/repo"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	slopeThreshold      = 5.0
	forecastDays        = 7
	compensationDays    = 7
	distinctServiceDays = 7
)

var (
	alertRateThreshold    = decimal.NewFromInt(50)
	criticalRateThreshold = decimal.NewFromInt(100)
	hundred               = decimal.NewFromInt(100)
)

type TrendService struct {
	stats        repo.TrendStat
	owners       OwnerResolver
	notifier     notify.Notifier
	counters     *metrics.Counters
	analysisDays int
	now          func() time.Time
}

func NewTrendService(stats repo.TrendStat, owners OwnerResolver, notifier notify.Notifier, analysisDays int, cnt *metrics.Counters) *TrendService {
	if analysisDays <= 0 {
		analysisDays = 7
	}
	return &TrendService{
		stats:        stats,
		owners:       owners,
		notifier:     notifier,
		counters:     cnt,
		analysisDays: analysisDays,
		now:          time.Now,
	}
}

func (s *TrendService) AnalyzeTrend(ctx context.Context, service string, days int) (domain.TrendReport, error) {
	if days <= 0 {
		days = s.analysisDays
	}
	report := domain.TrendReport{
		ServiceName: service,
		Days:        days,
		Trend:       domain.TrendStable,
		ChangeRate:  decimal.Zero,
		History:     []domain.TrendPoint{},
		Forecast:    []domain.TrendPoint{},
		PeakHours:   map[int]int64{},
	}

	today := s.now()
	rows, err := s.stats.DailySeries(ctx, service, today.AddDate(0, 0, -days+1), today)
	if err != nil {
		return report, errorsUtils.WrapPathErr(fmt.Errorf("%w: %v", ErrCannotAnalyzeTrend, err))
	}
	if len(rows) == 0 {
		return report, nil
	}

	history := BuildSeries(rows)
	counts := make([]int64, len(history))
	for i, p := range history {
		counts[i] = p.Count
	}

	report.History = history
	report.Slope = FitSlope(counts)
	report.Trend = ClassifyTrend(report.Slope)
	report.ChangeRate = ChangeRate(counts[0], counts[len(counts)-1])
	report.Forecast = Forecast(history, report.Slope, forecastDays)

	last := history[len(history)-1].Date
	hourly, err := s.stats.HourlyStats(ctx, service, last)
	if err != nil {
		log.WithFields(log.Fields{
			"service": service,
			"error":   err,
		}).Warn("Hourly stats unavailable, peak hours skipped")
	} else {
		for _, h := range hourly {
			report.PeakHours[h.StatHour] += h.TotalCount
		}
	}

	if level, ok := AlertLevel(report.Trend, report.ChangeRate); ok {
		report.Alert = &domain.TrendAlert{
			ServiceName: service,
			Level:       level,
			Trend:       report.Trend,
			ChangeRate:  report.ChangeRate,
			Owner:       s.owners.OwnerFor(service),
			Message: fmt.Sprintf("%s exceptions %s over %d days, change %s%%",
				service, report.Trend, days, report.ChangeRate.StringFixed(2)),
			CreatedAt: s.now(),
		}
		s.counters.TrendAlerts.Inc(level)
		log.WithFields(log.Fields{
			"service": service,
			"level":   level,
			"trend":   report.Trend,
			"change":  report.ChangeRate.String(),
		}).Warn("Trend alert raised")
		if err := s.notifier.NotifyTrend(ctx, report.Alert); err != nil {
			log.WithFields(log.Fields{
				"service": service,
				"error":   err,
			}).Warn("Trend notification failed")
		}
	}

	return report, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildSeries turns ordered daily rows into points, filling days missing
// between the first and last row with zero.
func BuildSeries(rows []domain.DailyTrendStat) []domain.TrendPoint {
	if len(rows) == 0 {
		return nil
	}
	byDate := make(map[time.Time]int64, len(rows))
	for _, r := range rows {
		byDate[dateOf(r.StatDate)] += r.TotalCount
	}

	first, last := dateOf(rows[0].StatDate), dateOf(rows[len(rows)-1].StatDate)
	points := make([]domain.TrendPoint, 0, len(rows))
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		points = append(points, domain.TrendPoint{Date: d, Count: byDate[d]})
	}
	return points
}

// FitSlope is the least-squares slope of counts against their index.
func FitSlope(counts []int64) float64 {
	n := float64(len(counts))
	if len(counts) < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, c := range counts {
		x, y := float64(i), float64(c)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func ClassifyTrend(slope float64) string {
	switch {
	case slope > slopeThreshold:
		return domain.TrendIncreasing
	case slope < -slopeThreshold:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// ChangeRate returns (last-first)/first as a percentage with 2 decimals.
// A zero base counts as +100% when anything appeared since.
func ChangeRate(first, last int64) decimal.Decimal {
	if first == 0 {
		if last > 0 {
			return hundred
		}
		return decimal.Zero
	}
	return decimal.NewFromInt(last - first).
		DivRound(decimal.NewFromInt(first), 4).
		Mul(hundred).
		Round(2)
}

// Forecast extrapolates slope from the last point, one point per day.
// Fractional counts are truncated.
func Forecast(history []domain.TrendPoint, slope float64, days int) []domain.TrendPoint {
	if len(history) == 0 || days <= 0 {
		return []domain.TrendPoint{}
	}
	last := history[len(history)-1]
	out := make([]domain.TrendPoint, 0, days)
	for i := 1; i <= days; i++ {
		v := math.Max(0, float64(last.Count)+slope*float64(i))
		out = append(out, domain.TrendPoint{
			Date:  last.Date.AddDate(0, 0, i),
			Count: int64(v),
		})
	}
	return out
}

func AlertLevel(trend string, rate decimal.Decimal) (string, bool) {
	abs := rate.Abs()
	if !abs.GreaterThan(alertRateThreshold) && trend != domain.TrendIncreasing {
		return "", false
	}
	switch {
	case abs.GreaterThanOrEqual(criticalRateThreshold):
		return domain.AlertLevelCritical, true
	case abs.GreaterThanOrEqual(alertRateThreshold):
		return domain.AlertLevelHigh, true
	default:
		return domain.AlertLevelMedium, true
	}
}

func (s *TrendService) RunHourlyAggregation(ctx context.Context) error {
	n, err := s.stats.AggregateHourly(ctx, s.now())
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	log.WithField("rows", n).Info("Hourly trend stats aggregated")
	return nil
}

// RunDailyAggregation closes yesterday's hourly rows, rolls up yesterday and
// analyzes every service seen in the last week.
func (s *TrendService) RunDailyAggregation(ctx context.Context) error {
	now := s.now()
	yesterday := now.AddDate(0, 0, -1)
	if _, err := s.stats.AggregateHourly(ctx, yesterday); err != nil {
		log.WithFields(log.Fields{
			"day":   yesterday.Format(time.DateOnly),
			"error": err,
		}).Error("Hourly trend stats for yesterday not closed")
	}

	n, err := s.stats.AggregateDaily(ctx, yesterday)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	log.WithField("rows", n).Info("Daily trend stats aggregated")

	services, err := s.stats.DistinctServices(ctx, now.AddDate(0, 0, -distinctServiceDays), now)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	for _, svc := range services {
		if _, err := s.AnalyzeTrend(ctx, svc, s.analysisDays); err != nil {
			log.WithFields(log.Fields{
				"service": svc,
				"error":   err,
			}).Error("Trend analysis failed")
		}
	}
	return nil
}

// RunWeeklyCompensation re-aggregates the hourly and daily rows of each of
// the last 7 days. A failing day does not stop the others.
func (s *TrendService) RunWeeklyCompensation(ctx context.Context) error {
	now := s.now()
	failed := 0
	for i := 1; i <= compensationDays; i++ {
		day := now.AddDate(0, 0, -i)
		_, hourlyErr := s.stats.AggregateHourly(ctx, day)
		_, dailyErr := s.stats.AggregateDaily(ctx, day)
		if err := errors.Join(hourlyErr, dailyErr); err != nil {
			failed++
			log.WithFields(log.Fields{
				"day":   day.Format(time.DateOnly),
				"error": err,
			}).Error("Trend compensation failed")
		}
	}
	if failed > 0 {
		return fmt.Errorf("weekly compensation: %d of %d days failed", failed, compensationDays)
	}
	return nil
}
