package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	"github.com/Egor213/ExceptionSieve/internal/notify"
	"github.com/Egor213/ExceptionSieve/internal/repo"
	"github.com/Egor213/ExceptionSieve/internal/repo/repoerrs"
	"github.com/Egor213/ExceptionSieve/internal/severity"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	ticketNoPrefix     = "TK"
	ticketNoTimeLayout = "20060102150405"
	maxTitleLocation   = 50
	maxContentStack    = 20
)

type TicketService struct {
	tickets  repo.Ticket
	tx       TxManager
	owners   OwnerResolver
	notifier notify.Notifier
	reporter string
	counters *metrics.Counters
	now      func() time.Time
	seq      atomic.Uint32
}

func NewTicketService(tickets repo.Ticket, tx TxManager, owners OwnerResolver, notifier notify.Notifier, reporter string, cnt *metrics.Counters) *TicketService {
	return &TicketService{
		tickets:  tickets,
		tx:       tx,
		owners:   owners,
		notifier: notifier,
		reporter: reporter,
		counters: cnt,
		now:      time.Now,
	}
}

// GenerateTicket folds rec into the open ticket of its fingerprint or opens a new one.
// Only a new ticket is announced.
func (s *TicketService) GenerateTicket(ctx context.Context, rec *domain.ExceptionRecord, decision *domain.DenoiseDecision) (int64, error) {
	id, created, err := s.upsertTx(ctx, rec, decision)
	if errors.Is(err, repoerrs.ErrAlreadyExists) {
		// another event of the same fingerprint opened the ticket first
		id, created, err = s.upsertTx(ctx, rec, decision)
	}
	if err != nil {
		log.WithFields(log.Fields{
			"fingerprint": rec.Fingerprint,
			"error":       err,
		}).Error("Ticket generation failed")
		return 0, errorsUtils.WrapPathErr(fmt.Errorf("%w: %v", ErrCannotGenerateTicket, err))
	}

	if created != nil {
		if err := s.notifier.NotifyTicket(ctx, created, rec); err != nil {
			log.WithFields(log.Fields{
				"ticket": created.TicketNo,
				"error":  err,
			}).Warn("Ticket notification failed")
		}
	}
	return id, nil
}

func (s *TicketService) upsertTx(ctx context.Context, rec *domain.ExceptionRecord, decision *domain.DenoiseDecision) (int64, *domain.Ticket, error) {
	var (
		id      int64
		created *domain.Ticket
	)
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		id, created, err = s.upsert(ctx, rec, decision)
		return err
	})
	return id, created, err
}

func (s *TicketService) upsert(ctx context.Context, rec *domain.ExceptionRecord, decision *domain.DenoiseDecision) (int64, *domain.Ticket, error) {
	existing, err := s.tickets.FindOpenByFingerprint(ctx, rec.Fingerprint)
	switch {
	case err == nil:
		existing.OccurrenceCount++
		existing.LastOccurredAt = s.occurredAt(rec)
		if err := s.tickets.Update(ctx, &existing); err != nil {
			return 0, nil, err
		}
		s.counters.Tickets.Inc("updated")
		log.WithFields(log.Fields{
			"ticket":      existing.TicketNo,
			"fingerprint": rec.Fingerprint,
			"occurrences": existing.OccurrenceCount,
		}).Info("Ticket occurrence recorded")
		return existing.ID, nil, nil
	case !errors.Is(err, repoerrs.ErrNotFound):
		return 0, nil, err
	}

	t := s.buildTicket(rec, decision)
	id, err := s.tickets.Create(ctx, t)
	if err != nil {
		return 0, nil, err
	}
	t.ID = id
	s.counters.Tickets.Inc("created")
	log.WithFields(log.Fields{
		"ticket":      t.TicketNo,
		"fingerprint": t.Fingerprint,
		"severity":    t.Severity,
		"assignee":    t.Assignee,
	}).Info("Ticket created")
	return id, t, nil
}

func (s *TicketService) occurredAt(rec *domain.ExceptionRecord) time.Time {
	if rec.OccurredAt.IsZero() {
		return s.now()
	}
	return rec.OccurredAt
}

func (s *TicketService) nextTicketNo() string {
	n := s.seq.Add(1) % 10000
	return fmt.Sprintf("%s%s%04d", ticketNoPrefix, s.now().Format(ticketNoTimeLayout), n)
}

func (s *TicketService) buildTicket(rec *domain.ExceptionRecord, decision *domain.DenoiseDecision) *domain.Ticket {
	sev := severity.Calculate(rec.ExceptionType, rec.Environment)
	if decision != nil && decision.SuggestedSeverity != "" {
		sev = decision.SuggestedSeverity
	}

	owner := s.owners.OwnerFor(rec.AppName)
	occurred := s.occurredAt(rec)

	t := &domain.Ticket{
		TicketNo:          s.nextTicketNo(),
		Title:             TicketTitle(rec.ExceptionType, rec.ErrorLocation),
		Content:           ticketContent(rec, decision),
		Category:          domain.TicketCategoryException,
		Fingerprint:       rec.Fingerprint,
		ServiceName:       rec.AppName,
		Environment:       rec.Environment,
		ExceptionType:     rec.ExceptionType,
		ErrorLocation:     rec.ErrorLocation,
		ProblemType:       severity.ProblemType(rec.ExceptionType),
		Severity:          sev,
		Status:            domain.TicketStatusPending,
		Owner:             owner,
		Assignee:          owner,
		Reporter:          s.reporter,
		OccurrenceCount:   1,
		FirstOccurredAt:   occurred,
		LastOccurredAt:    occurred,
		ExpectedResolveAt: severity.ExpectedResolveAt(sev, s.now()),
		Progress:          0,
	}
	if decision != nil && decision.Suggestion != "" {
		t.Remark = "AI suggestion: " + decision.Suggestion
	}
	return t
}

// TicketTitle renders "[type] location", shortening long locations.
func TicketTitle(exceptionType, location string) string {
	if r := []rune(location); len(r) > maxTitleLocation {
		location = string(r[:maxTitleLocation]) + "..."
	}
	return "[" + exceptionType + "] " + location
}

func ticketContent(rec *domain.ExceptionRecord, decision *domain.DenoiseDecision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Service: %s\n", rec.AppName)
	fmt.Fprintf(&b, "Environment: %s\n", rec.Environment)
	fmt.Fprintf(&b, "Type: %s\n", rec.ExceptionType)
	fmt.Fprintf(&b, "Message: %s\n", rec.Message)
	fmt.Fprintf(&b, "Location: %s\n", rec.ErrorLocation)
	if rec.RequestURI != "" {
		fmt.Fprintf(&b, "Request: %s %s\n", rec.RequestMethod, rec.RequestURI)
	}
	if rec.TraceID != "" {
		fmt.Fprintf(&b, "Trace: %s\n", rec.TraceID)
	}
	if decision != nil && decision.Reason != "" {
		fmt.Fprintf(&b, "AI analysis: %s\n", decision.Reason)
	}
	if rec.StackTrace != "" {
		b.WriteString("\nStack:\n")
		b.WriteString(truncateStack(rec.StackTrace, maxContentStack))
	}
	return b.String()
}

// MarkSLABreaches flags open tickets whose deadline has passed.
func (s *TicketService) MarkSLABreaches(ctx context.Context) (int64, error) {
	n, err := s.tickets.MarkSLABreached(ctx, s.now())
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}
	if n > 0 {
		log.WithField("tickets", n).Warn("Tickets breached their SLA")
	}
	return n, nil
}
