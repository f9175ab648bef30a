package service

import (
	"context"
	"fmt"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	"github.com/Egor213/ExceptionSieve/internal/repo"
	"github.com/Egor213/ExceptionSieve/internal/severity"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Denoiser interface {
	Enabled() bool
	ShouldAlert(ctx context.Context, ev *domain.ExceptionEvent) domain.DenoiseDecision
}

type TicketGenerator interface {
	GenerateTicket(ctx context.Context, rec *domain.ExceptionRecord, decision *domain.DenoiseDecision) (int64, error)
}

// ExceptionProcessor handles events that survived the cheap layers:
// AI denoise, then persistence, then the ticket.
type ExceptionProcessor struct {
	records        repo.ExceptionRecord
	denoiser       Denoiser
	tickets        TicketGenerator
	ticketsEnabled bool
	counters       *metrics.Counters
}

func NewExceptionProcessor(records repo.ExceptionRecord, denoiser Denoiser, tickets TicketGenerator, ticketsEnabled bool, cnt *metrics.Counters) *ExceptionProcessor {
	return &ExceptionProcessor{
		records:        records,
		denoiser:       denoiser,
		tickets:        tickets,
		ticketsEnabled: ticketsEnabled,
		counters:       cnt,
	}
}

func (p *ExceptionProcessor) Process(ctx context.Context, ev *domain.ExceptionEvent) error {
	var decision *domain.DenoiseDecision
	if p.denoiser.Enabled() {
		d := p.denoiser.ShouldAlert(ctx, ev)
		if !d.ShouldAlert {
			p.counters.FunnelEvents.Inc(DenoiseLayerName, "filtered")
			log.WithFields(log.Fields{
				"fingerprint": ev.Fingerprint,
				"layer":       DenoiseLayerName,
				"reason":      d.Reason,
			}).Debug("Exception filtered")
			return nil
		}
		p.counters.FunnelEvents.Inc(DenoiseLayerName, "passed")
		decision = &d
	}

	rec := domain.NewExceptionRecord(ev, severity.Calculate(ev.ExceptionType, ev.Environment))
	if decision != nil {
		rec.AIProcessed = true
		rec.AIDecision = domain.AIDecisionAlert
		rec.AIReason = decision.Reason
	}

	id, err := p.records.Insert(ctx, rec)
	if err != nil {
		return errorsUtils.WrapPathErr(fmt.Errorf("%w: %v", ErrCannotPersistRecord, err))
	}
	rec.ID = id

	if !p.ticketsEnabled {
		return nil
	}
	if _, err := p.tickets.GenerateTicket(ctx, rec, decision); err != nil {
		return err
	}
	return nil
}
