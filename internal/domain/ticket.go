package domain

import "time"

const (
	SeverityP0 = "P0"
	SeverityP1 = "P1"
	SeverityP2 = "P2"
	SeverityP3 = "P3"
	SeverityP4 = "P4"
)

type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "PENDING"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

const TicketCategoryException = "EXCEPTION"

type Ticket struct {
	ID                int64        `db:"id" json:"id"`
	TicketNo          string       `db:"ticket_no" json:"ticketNo"`
	Title             string       `db:"title" json:"title"`
	Content           string       `db:"content" json:"content"`
	Category          string       `db:"category" json:"category"`
	Fingerprint       string       `db:"fingerprint" json:"fingerprint"`
	ServiceName       string       `db:"service_name" json:"serviceName"`
	Environment       string       `db:"environment" json:"environment"`
	ExceptionType     string       `db:"exception_type" json:"exceptionType"`
	ErrorLocation     string       `db:"error_location" json:"errorLocation"`
	ProblemType       string       `db:"problem_type" json:"problemType"`
	Severity          string       `db:"severity" json:"severity"`
	Status            TicketStatus `db:"status" json:"status"`
	Owner             string       `db:"owner" json:"owner"`
	Assignee          string       `db:"assignee" json:"assignee"`
	Reporter          string       `db:"reporter" json:"reporter"`
	OccurrenceCount   int          `db:"occurrence_count" json:"occurrenceCount"`
	FirstOccurredAt   time.Time    `db:"first_occurred_at" json:"firstOccurredAt"`
	LastOccurredAt    time.Time    `db:"last_occurred_at" json:"lastOccurredAt"`
	ExpectedResolveAt time.Time    `db:"expected_resolve_at" json:"expectedResolveAt"`
	SLABreached       bool         `db:"sla_breached" json:"slaBreached"`
	Progress          int          `db:"progress" json:"progress"`
	Remark            string       `db:"remark" json:"remark"`
	CreatedAt         time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updatedAt"`
}

func (t *Ticket) IsOpen() bool {
	return t.Status != TicketStatusClosed
}
