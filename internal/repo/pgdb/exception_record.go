package pgdb

import (
	"context"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/repo/repoerrs"
	"github.com/Egor213/ExceptionSieve/internal/repo/repotypes"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	"github.com/Egor213/ExceptionSieve/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type ExceptionRecordRepo struct {
	*postgres.Postgres
}

func NewExceptionRecordRepo(pg *postgres.Postgres) *ExceptionRecordRepo {
	return &ExceptionRecordRepo{pg}
}

func (r *ExceptionRecordRepo) Insert(ctx context.Context, rec *domain.ExceptionRecord) (int64, error) {
	sql, args, err := r.Builder.
		Insert("exception_records").
		Columns(recordColumns[1:]...).
		Values(
			rec.AppName, rec.Environment, rec.HostName, rec.ExceptionType, rec.Message, rec.StackTrace,
			rec.ErrorLocation, rec.Fingerprint, rec.Severity, rec.RequestMethod, rec.RequestURI, rec.ClientIP,
			rec.ThreadName, rec.TraceID, rec.OccurredAt, rec.AIProcessed, rec.AIDecision, rec.AIReason,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}

	var id int64
	err = r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if errorsUtils.IsNotNullViolation(err) {
			return 0, errorsUtils.WrapPathErr(repoerrs.ErrMissingField)
		}
		return 0, errorsUtils.WrapPathErr(err)
	}
	return id, nil
}

func (r *ExceptionRecordRepo) FindRecent(ctx context.Context, filter repotypes.RecentFilter) ([]domain.ExceptionRecord, error) {
	conds, limit := BuildRecentQueryFilters(filter)

	query := r.Builder.
		Select(recordColumns...).
		From("exception_records").
		OrderBy("occurred_at DESC").
		Limit(limit)

	if len(conds) > 0 {
		query = query.Where(sq.And(conds))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ExceptionRecord])
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	return records, nil
}
