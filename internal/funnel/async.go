package funnel

import (
	"context"
	"sync"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

const DefaultMaxInFlight = 256

// Sink is anything that accepts events synchronously.
type Sink interface {
	Collect(ctx context.Context, ev *domain.ExceptionEvent)
}

// AsyncCollector runs Collect in the background for remote producers,
// with at most maxInFlight events in progress.
type AsyncCollector struct {
	sink Sink
	sem  *semaphore.Weighted
	wg   sync.WaitGroup
}

func NewAsyncCollector(sink Sink, maxInFlight int64) *AsyncCollector {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &AsyncCollector{sink: sink, sem: semaphore.NewWeighted(maxInFlight)}
}

// Submit returns false without blocking when the collector is saturated.
// ctx values are kept but its cancellation is not.
func (a *AsyncCollector) Submit(ctx context.Context, ev *domain.ExceptionEvent) bool {
	if !a.sem.TryAcquire(1) {
		return false
	}
	a.wg.Add(1)
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer a.wg.Done()
		defer a.sem.Release(1)
		a.sink.Collect(ctx, ev)
	}()
	return true
}

// Collect makes AsyncCollector a Sink. Events arriving while saturated are dropped.
func (a *AsyncCollector) Collect(ctx context.Context, ev *domain.ExceptionEvent) {
	if ev == nil {
		return
	}
	if !a.Submit(ctx, ev) {
		log.WithFields(log.Fields{
			"app":  ev.AppName,
			"type": ev.ExceptionType,
		}).Warn("Collector saturated, exception dropped")
	}
}

// Wait blocks until every submitted event has been collected.
func (a *AsyncCollector) Wait() {
	a.wg.Wait()
}
