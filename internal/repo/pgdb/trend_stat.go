package pgdb

import (
	"context"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/repo/repotypes"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	"github.com/Egor213/ExceptionSieve/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type TrendStatRepo struct {
	*postgres.Postgres
}

func NewTrendStatRepo(pg *postgres.Postgres) *TrendStatRepo {
	return &TrendStatRepo{pg}
}

// AggregateDaily rebuilds the daily rows of day from exception_records.
// Running it twice for the same day yields the same rows.
func (r *TrendStatRepo) AggregateDaily(ctx context.Context, day time.Time) (int64, error) {
	rng := repotypes.Day(day)

	// Inner select keeps '?' so the outer builder numbers all placeholders once.
	inner := sq.Select("app_name").
		Column(sq.Expr("?::date", dateOnly(rng.From))).
		Columns("exception_type", "COUNT(*)", "COUNT(DISTINCT fingerprint)").
		Columns(severityCountColumns()...).
		From("exception_records").
		Where(sq.GtOrEq{"occurred_at": rng.From}).
		Where(sq.Lt{"occurred_at": rng.To}).
		GroupBy("app_name", "exception_type")

	sql, args, err := r.Builder.
		Insert("daily_trend_stats").
		Columns("service_name", "stat_date", "exception_type", "total_count", "unique_fingerprints",
			"p0_count", "p1_count", "p2_count", "p3_count", "p4_count").
		Select(inner).
		Suffix(`ON CONFLICT (service_name, stat_date, exception_type) DO UPDATE SET
			total_count = EXCLUDED.total_count,
			unique_fingerprints = EXCLUDED.unique_fingerprints,
			p0_count = EXCLUDED.p0_count,
			p1_count = EXCLUDED.p1_count,
			p2_count = EXCLUDED.p2_count,
			p3_count = EXCLUDED.p3_count,
			p4_count = EXCLUDED.p4_count,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}

	tag, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}
	return tag.RowsAffected(), nil
}

func (r *TrendStatRepo) AggregateHourly(ctx context.Context, day time.Time) (int64, error) {
	rng := repotypes.Day(day)

	inner := sq.Select("app_name").
		Column(sq.Expr("?::date", dateOnly(rng.From))).
		Columns("EXTRACT(HOUR FROM occurred_at)::int", "exception_type", "COUNT(*)").
		From("exception_records").
		Where(sq.GtOrEq{"occurred_at": rng.From}).
		Where(sq.Lt{"occurred_at": rng.To}).
		GroupBy("app_name", "EXTRACT(HOUR FROM occurred_at)", "exception_type")

	sql, args, err := r.Builder.
		Insert("hourly_trend_stats").
		Columns("service_name", "stat_date", "stat_hour", "exception_type", "total_count").
		Select(inner).
		Suffix(`ON CONFLICT (service_name, stat_date, stat_hour, exception_type) DO UPDATE SET
			total_count = EXCLUDED.total_count,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}

	tag, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}
	return tag.RowsAffected(), nil
}

// DailySeries sums every exception type of service per day, oldest first.
func (r *TrendStatRepo) DailySeries(ctx context.Context, service string, from, to time.Time) ([]domain.DailyTrendStat, error) {
	query := r.Builder.
		Select(
			"service_name", "stat_date", "'' AS exception_type",
			"SUM(total_count)::bigint AS total_count",
			"SUM(unique_fingerprints)::bigint AS unique_fingerprints",
			"SUM(p0_count)::bigint AS p0_count", "SUM(p1_count)::bigint AS p1_count",
			"SUM(p2_count)::bigint AS p2_count", "SUM(p3_count)::bigint AS p3_count",
			"SUM(p4_count)::bigint AS p4_count",
		).
		From("daily_trend_stats").
		Where(sq.And(BuildSeriesQueryFilters(service, from, to))).
		GroupBy("service_name", "stat_date").
		OrderBy("stat_date ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.DailyTrendStat])
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	return stats, nil
}

func (r *TrendStatRepo) HourlyStats(ctx context.Context, service string, day time.Time) ([]domain.HourlyTrendStat, error) {
	sql, args, err := r.Builder.
		Select("service_name", "stat_date", "stat_hour", "'' AS exception_type", "SUM(total_count)::bigint AS total_count").
		From("hourly_trend_stats").
		Where(sq.Eq{"service_name": service, "stat_date": dateOnly(day)}).
		GroupBy("service_name", "stat_date", "stat_hour").
		OrderBy("stat_hour ASC").
		ToSql()
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.HourlyTrendStat])
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	return stats, nil
}

func (r *TrendStatRepo) DistinctServices(ctx context.Context, from, to time.Time) ([]string, error) {
	sql, args, err := r.Builder.
		Select("DISTINCT service_name").
		From("daily_trend_stats").
		Where(sq.And(BuildSeriesQueryFilters("", from, to))).
		OrderBy("service_name").
		ToSql()
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	services, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	return services, nil
}
