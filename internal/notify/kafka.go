package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/broker"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
)

const (
	EventTicketCreated = "ticket.created"
	EventTrendAlert    = "trend.alert"
)

type Event struct {
	Type     string                  `json:"type"`
	SentAt   time.Time               `json:"sentAt"`
	Ticket   *domain.Ticket          `json:"ticket,omitempty"`
	Record   *domain.ExceptionRecord `json:"record,omitempty"`
	Trend    *domain.TrendAlert      `json:"trend,omitempty"`
	Priority string                  `json:"priority,omitempty"`
}

// Kafka publishes alerts as JSON events keyed by fingerprint or service.
type Kafka struct {
	producer broker.Producer
}

func NewKafka(p broker.Producer) *Kafka {
	return &Kafka{producer: p}
}

func (k *Kafka) NotifyTicket(ctx context.Context, t *domain.Ticket, rec *domain.ExceptionRecord) error {
	return k.publish(ctx, t.Fingerprint, Event{
		Type:     EventTicketCreated,
		SentAt:   time.Now(),
		Ticket:   t,
		Record:   rec,
		Priority: t.Severity,
	})
}

func (k *Kafka) NotifyTrend(ctx context.Context, alert *domain.TrendAlert) error {
	return k.publish(ctx, alert.ServiceName, Event{
		Type:     EventTrendAlert,
		SentAt:   nowOr(alert.CreatedAt),
		Trend:    alert,
		Priority: alert.Level,
	})
}

func (k *Kafka) publish(ctx context.Context, key string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	return k.producer.SendMessage(ctx, []byte(key), payload)
}
