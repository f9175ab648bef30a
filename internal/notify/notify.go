// Package notify delivers ticket and trend alerts to chat webhooks and the event stream.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
)

type Notifier interface {
	NotifyTicket(ctx context.Context, t *domain.Ticket, rec *domain.ExceptionRecord) error
	NotifyTrend(ctx context.Context, alert *domain.TrendAlert) error
}

// Multi fans out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyTicket(ctx context.Context, t *domain.Ticket, rec *domain.ExceptionRecord) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyTicket(ctx, t, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) NotifyTrend(ctx context.Context, alert *domain.TrendAlert) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyTrend(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const timeLayout = "2006-01-02 15:04:05"

// simplified reports whether a ticket of this severity gets the short form.
func simplified(sev string) bool {
	return sev == domain.SeverityP3 || sev == domain.SeverityP4
}

func renderTicket(t *domain.Ticket, rec *domain.ExceptionRecord) string {
	var b strings.Builder
	if simplified(t.Severity) {
		fmt.Fprintf(&b, "[%s] %s\nservice: %s, owner: %s, ticket: %s",
			t.Severity, t.Title, t.ServiceName, t.Owner, t.TicketNo)
		return b.String()
	}

	fmt.Fprintf(&b, "[%s] New exception ticket %s\n", t.Severity, t.TicketNo)
	fmt.Fprintf(&b, "Title: %s\n", t.Title)
	fmt.Fprintf(&b, "Service: %s (%s)\n", t.ServiceName, t.Environment)
	fmt.Fprintf(&b, "Type: %s\n", t.ExceptionType)
	fmt.Fprintf(&b, "Location: %s\n", t.ErrorLocation)
	fmt.Fprintf(&b, "Problem: %s\n", t.ProblemType)
	if rec != nil && rec.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", truncate(rec.Message, 300))
	}
	fmt.Fprintf(&b, "Owner: %s\n", t.Owner)
	fmt.Fprintf(&b, "Resolve by: %s", t.ExpectedResolveAt.Format(timeLayout))
	if t.Remark != "" {
		fmt.Fprintf(&b, "\n%s", t.Remark)
	}
	return b.String()
}

func renderTrend(a *domain.TrendAlert) string {
	return fmt.Sprintf("[%s] Exception trend alert for %s\nTrend: %s, change rate: %s%%\nOwner: %s\n%s\nAt: %s",
		a.Level, a.ServiceName, a.Trend, a.ChangeRate.StringFixed(2), a.Owner, a.Message, a.CreatedAt.Format(timeLayout))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
