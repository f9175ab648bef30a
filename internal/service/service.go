package service

import (
	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/llm"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	"github.com/Egor213/ExceptionSieve/internal/notify"
	"github.com/Egor213/ExceptionSieve/internal/repo"
)

type Services struct {
	Denoise   *DenoiseService
	Tickets   *TicketService
	Trends    *TrendService
	Processor *ExceptionProcessor
}

type ServicesDependencies struct {
	Repos     *repo.Repositories
	TxManager TxManager
	Owners    OwnerResolver
	Notifier  notify.Notifier
	Completer llm.Completer
	Counters  *metrics.Counters

	AIDenoise config.AIDenoise
	Ticket    config.Ticket
	Trend     config.Trend
}

func NewServices(deps ServicesDependencies) *Services {
	denoise := NewDenoiseService(deps.AIDenoise, deps.Repos.ExceptionRecord, deps.Completer, deps.Counters)
	tickets := NewTicketService(deps.Repos.Ticket, deps.TxManager, deps.Owners, deps.Notifier, deps.Ticket.Reporter, deps.Counters)
	return &Services{
		Denoise:   denoise,
		Tickets:   tickets,
		Trends:    NewTrendService(deps.Repos.TrendStat, deps.Owners, deps.Notifier, deps.Trend.AnalysisDays, deps.Counters),
		Processor: NewExceptionProcessor(deps.Repos.ExceptionRecord, denoise, tickets, deps.Ticket.Enabled, deps.Counters),
	}
}
