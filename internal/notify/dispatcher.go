package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// Dispatcher runs a Notifier in the background so delivery never blocks or fails the caller.
type Dispatcher struct {
	next     Notifier
	channel  string
	timeout  time.Duration
	counters *metrics.Counters
	wg       sync.WaitGroup
}

func NewDispatcher(next Notifier, channel string, timeout time.Duration, cnt *metrics.Counters) *Dispatcher {
	return &Dispatcher{next: next, channel: channel, timeout: timeout, counters: cnt}
}

func (d *Dispatcher) NotifyTicket(ctx context.Context, t *domain.Ticket, rec *domain.ExceptionRecord) error {
	tc := *t
	var rc *domain.ExceptionRecord
	if rec != nil {
		cp := *rec
		rc = &cp
	}
	d.run(ctx, log.Fields{"ticket": t.TicketNo, "severity": t.Severity}, func(ctx context.Context) error {
		return d.next.NotifyTicket(ctx, &tc, rc)
	})
	return nil
}

func (d *Dispatcher) NotifyTrend(ctx context.Context, alert *domain.TrendAlert) error {
	ac := *alert
	d.run(ctx, log.Fields{"service": alert.ServiceName, "level": alert.Level}, func(ctx context.Context) error {
		return d.next.NotifyTrend(ctx, &ac)
	})
	return nil
}

func (d *Dispatcher) run(parent context.Context, fields log.Fields, fn func(context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(fields).WithField("panic", r).Error("Notifier panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			d.counters.Notifications.Inc(d.channel, "failed")
			log.WithFields(fields).WithField("error", err).Warn("Notification not delivered")
			return
		}
		d.counters.Notifications.Inc(d.channel, "sent")
	}()
}

// Wait blocks until every in-flight notification finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
