package repo

import (
	"context"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/repo/pgdb"
	"github.com/Egor213/ExceptionSieve/internal/repo/repotypes"
	"github.com/Egor213/ExceptionSieve/pkg/postgres"
)

type ExceptionRecord interface {
	Insert(ctx context.Context, rec *domain.ExceptionRecord) (int64, error)
	FindRecent(ctx context.Context, filter repotypes.RecentFilter) ([]domain.ExceptionRecord, error)
}

type Ticket interface {
	// FindOpenByFingerprint returns repoerrs.ErrNotFound when every ticket for fp is closed.
	FindOpenByFingerprint(ctx context.Context, fp string) (domain.Ticket, error)
	// Create returns repoerrs.ErrAlreadyExists if an open ticket for the fingerprint appeared meanwhile.
	Create(ctx context.Context, t *domain.Ticket) (int64, error)
	Update(ctx context.Context, t *domain.Ticket) error
	MarkSLABreached(ctx context.Context, now time.Time) (int64, error)
}

type TrendStat interface {
	AggregateDaily(ctx context.Context, day time.Time) (int64, error)
	AggregateHourly(ctx context.Context, day time.Time) (int64, error)
	DailySeries(ctx context.Context, service string, from, to time.Time) ([]domain.DailyTrendStat, error)
	HourlyStats(ctx context.Context, service string, day time.Time) ([]domain.HourlyTrendStat, error)
	DistinctServices(ctx context.Context, from, to time.Time) ([]string, error)
}

type Repositories struct {
	ExceptionRecord
	Ticket
	TrendStat
}

func NewRepositories(pg *postgres.Postgres) *Repositories {
	return &Repositories{
		ExceptionRecord: pgdb.NewExceptionRecordRepo(pg),
		Ticket:          pgdb.NewTicketRepo(pg),
		TrendStat:       pgdb.NewTrendStatRepo(pg),
	}
}
