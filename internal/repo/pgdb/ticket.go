package pgdb

import (
	"context"
	"errors"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/repo/repoerrs"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	"github.com/Egor213/ExceptionSieve/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type TicketRepo struct {
	*postgres.Postgres
}

func NewTicketRepo(pg *postgres.Postgres) *TicketRepo {
	return &TicketRepo{pg}
}

func (r *TicketRepo) FindOpenByFingerprint(ctx context.Context, fp string) (domain.Ticket, error) {
	sql, args, err := r.Builder.
		Select(ticketColumns...).
		From("tickets").
		Where(sq.Eq{"fingerprint": fp}).
		Where(sq.NotEq{"status": string(domain.TicketStatusClosed)}).
		OrderBy("created_at DESC").
		Limit(1).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return domain.Ticket{}, errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return domain.Ticket{}, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	t, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Ticket])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Ticket{}, repoerrs.ErrNotFound
		}
		return domain.Ticket{}, errorsUtils.WrapPathErr(err)
	}
	return t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *domain.Ticket) (int64, error) {
	sql, args, err := r.Builder.
		Insert("tickets").
		Columns(ticketColumns[1:len(ticketColumns)-2]...).
		Values(
			t.TicketNo, t.Title, t.Content, t.Category, t.Fingerprint, t.ServiceName, t.Environment,
			t.ExceptionType, t.ErrorLocation, t.ProblemType, t.Severity, string(t.Status), t.Owner, t.Assignee,
			t.Reporter, t.OccurrenceCount, t.FirstOccurredAt, t.LastOccurredAt, t.ExpectedResolveAt,
			t.SLABreached, t.Progress, t.Remark,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}

	var id int64
	err = r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if errorsUtils.IsUniqueViolation(err) {
			return 0, repoerrs.ErrAlreadyExists
		}
		return 0, errorsUtils.WrapPathErr(err)
	}
	return id, nil
}

func (r *TicketRepo) Update(ctx context.Context, t *domain.Ticket) error {
	sql, args, err := r.Builder.
		Update("tickets").
		Set("occurrence_count", t.OccurrenceCount).
		Set("last_occurred_at", t.LastOccurredAt).
		Set("severity", t.Severity).
		Set("status", string(t.Status)).
		Set("assignee", t.Assignee).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}

	tag, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repoerrs.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) MarkSLABreached(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.Builder.
		Update("tickets").
		Set("sla_breached", true).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"sla_breached": false}).
		Where(sq.NotEq{"status": []string{string(domain.TicketStatusResolved), string(domain.TicketStatusClosed)}}).
		Where(sq.Lt{"expected_resolve_at": now}).
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
