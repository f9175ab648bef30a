package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	repository_mock "github.com/Egor213/ExceptionSieve/internal/mocks/repository"
	"github.com/Egor213/ExceptionSieve/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type stubDenoiser struct {
	enabled  bool
	decision domain.DenoiseDecision
	calls    int
}

func (s *stubDenoiser) Enabled() bool { return s.enabled }

func (s *stubDenoiser) ShouldAlert(context.Context, *domain.ExceptionEvent) domain.DenoiseDecision {
	s.calls++
	return s.decision
}

type stubTickets struct {
	rec      *domain.ExceptionRecord
	decision *domain.DenoiseDecision
	err      error
}

func (s *stubTickets) GenerateTicket(_ context.Context, rec *domain.ExceptionRecord, d *domain.DenoiseDecision) (int64, error) {
	s.rec, s.decision = rec, d
	return 1, s.err
}

func processorEvent() *domain.ExceptionEvent {
	return &domain.ExceptionEvent{
		AppName:       "order-service",
		Environment:   "prod",
		ExceptionType: "java.sql.SQLException",
		ErrorLocation: "OrderRepo.save:42",
		Fingerprint:   "fp-sql",
	}
}

func TestExceptionProcessor_Process(t *testing.T) {
	type mockBehavior func(r *repository_mock.MockExceptionRecord)

	testCases := []struct {
		name           string
		denoiser       *stubDenoiser
		ticketsEnabled bool
		ticketErr      error
		mockBehavior   mockBehavior
		wantTicket     bool
		wantAI         bool
		wantErr        error
	}{
		{
			name:           "denoise disabled persists and tickets",
			denoiser:       &stubDenoiser{},
			ticketsEnabled: true,
			mockBehavior: func(r *repository_mock.MockExceptionRecord) {
				r.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(5), nil)
			},
			wantTicket: true,
		},
		{
			name:           "model filters event",
			denoiser:       &stubDenoiser{enabled: true, decision: domain.DenoiseDecision{ShouldAlert: false}},
			ticketsEnabled: true,
			mockBehavior:   func(r *repository_mock.MockExceptionRecord) {},
		},
		{
			name:           "model alerts",
			denoiser:       &stubDenoiser{enabled: true, decision: domain.DenoiseDecision{ShouldAlert: true, Reason: "new"}},
			ticketsEnabled: true,
			mockBehavior: func(r *repository_mock.MockExceptionRecord) {
				r.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *domain.ExceptionRecord) (int64, error) {
						assert.Equal(t, domain.SeverityP0, rec.Severity)
						assert.True(t, rec.AIProcessed)
						assert.Equal(t, domain.AIDecisionAlert, rec.AIDecision)
						assert.Equal(t, "new", rec.AIReason)
						return 6, nil
					})
			},
			wantTicket: true,
			wantAI:     true,
		},
		{
			name:     "tickets disabled",
			denoiser: &stubDenoiser{},
			mockBehavior: func(r *repository_mock.MockExceptionRecord) {
				r.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(7), nil)
			},
		},
		{
			name:           "insert fails",
			denoiser:       &stubDenoiser{},
			ticketsEnabled: true,
			mockBehavior: func(r *repository_mock.MockExceptionRecord) {
				r.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db error"))
			},
			wantErr: service.ErrCannotPersistRecord,
		},
		{
			name:           "ticket fails",
			denoiser:       &stubDenoiser{},
			ticketsEnabled: true,
			ticketErr:      service.ErrCannotGenerateTicket,
			mockBehavior: func(r *repository_mock.MockExceptionRecord) {
				r.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(8), nil)
			},
			wantTicket: true,
			wantErr:    service.ErrCannotGenerateTicket,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := repository_mock.NewMockExceptionRecord(ctrl)
			tc.mockBehavior(mockRepo)
			tickets := &stubTickets{err: tc.ticketErr}

			p := service.NewExceptionProcessor(mockRepo, tc.denoiser, tickets, tc.ticketsEnabled, metrics.NewTestCounters())

			err := p.Process(context.Background(), processorEvent())

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}

			if !tc.wantTicket {
				assert.Nil(t, tickets.rec)
				return
			}
			if assert.NotNil(t, tickets.rec) {
				assert.NotZero(t, tickets.rec.ID)
			}
			assert.Equal(t, tc.wantAI, tickets.decision != nil)
		})
	}
}
