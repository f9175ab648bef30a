package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	llm_mock "github.com/Egor213/ExceptionSieve/internal/mocks/llm"
	repository_mock "github.com/Egor213/ExceptionSieve/internal/mocks/repository"
	"github.com/Egor213/ExceptionSieve/internal/repo/repotypes"
	"github.com/Egor213/ExceptionSieve/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func denoiseConfig() config.AIDenoise {
	return config.AIDenoise{
		Enabled:         true,
		Lookback:        2 * time.Minute,
		MaxRecords:      20,
		CacheTTL:        time.Minute,
		CacheMaxEntries: 100,
	}
}

func denoiseEvent() *domain.ExceptionEvent {
	return &domain.ExceptionEvent{
		AppName:       "order-service",
		Environment:   "prod",
		ExceptionType: "java.lang.NullPointerException",
		ErrorLocation: "OrderService.create:17",
		Fingerprint:   "fp-1",
		OccurredAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestDenoiseService_ShouldAlert(t *testing.T) {
	type mockBehavior func(r *repository_mock.MockExceptionRecord, c *llm_mock.MockCompleter)

	testCases := []struct {
		name         string
		mockBehavior mockBehavior
		wantAlert    bool
		wantSeverity string
	}{
		{
			name: "model filters duplicate",
			mockBehavior: func(r *repository_mock.MockExceptionRecord, c *llm_mock.MockCompleter) {
				r.EXPECT().FindRecent(gomock.Any(), gomock.Any()).
					Return([]domain.ExceptionRecord{{ID: 7}}, nil)
				c.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(`{"shouldAlert":false,"isDuplicate":true,"similarityScore":0.95,"suggestedSeverity":"P3","reason":"same as #7"}`, nil)
			},
			wantAlert:    false,
			wantSeverity: domain.SeverityP3,
		},
		{
			name: "model asks to alert",
			mockBehavior: func(r *repository_mock.MockExceptionRecord, c *llm_mock.MockCompleter) {
				r.EXPECT().FindRecent(gomock.Any(), gomock.Any()).Return(nil, nil)
				c.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("```json\n{\"shouldAlert\":true,\"suggestedSeverity\":\"P1\"}\n```", nil)
			},
			wantAlert:    true,
			wantSeverity: domain.SeverityP1,
		},
		{
			name: "call fails open",
			mockBehavior: func(r *repository_mock.MockExceptionRecord, c *llm_mock.MockCompleter) {
				r.EXPECT().FindRecent(gomock.Any(), gomock.Any()).Return(nil, nil)
				c.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", context.DeadlineExceeded)
			},
			wantAlert:    true,
			wantSeverity: domain.SeverityP3,
		},
		{
			name: "unparseable answer fails open",
			mockBehavior: func(r *repository_mock.MockExceptionRecord, c *llm_mock.MockCompleter) {
				r.EXPECT().FindRecent(gomock.Any(), gomock.Any()).Return(nil, nil)
				c.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("I think you should alert", nil)
			},
			wantAlert:    true,
			wantSeverity: domain.SeverityP3,
		},
		{
			name: "history lookup failure still asks",
			mockBehavior: func(r *repository_mock.MockExceptionRecord, c *llm_mock.MockCompleter) {
				r.EXPECT().FindRecent(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
				c.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(`{"shouldAlert":false}`, nil)
			},
			wantAlert: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := repository_mock.NewMockExceptionRecord(ctrl)
			mockLLM := llm_mock.NewMockCompleter(ctrl)
			tc.mockBehavior(mockRepo, mockLLM)

			s := service.NewDenoiseService(denoiseConfig(), mockRepo, mockLLM, metrics.NewTestCounters())

			got := s.ShouldAlert(context.Background(), denoiseEvent())

			assert.Equal(t, tc.wantAlert, got.ShouldAlert)
			assert.Equal(t, tc.wantSeverity, got.SuggestedSeverity)
		})
	}
}

func TestDenoiseService_LookbackRelativeToEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository_mock.NewMockExceptionRecord(ctrl)
	mockLLM := llm_mock.NewMockCompleter(ctrl)

	ev := denoiseEvent()
	mockRepo.EXPECT().
		FindRecent(gomock.Any(), repotypes.RecentFilter{
			AppName: ev.AppName,
			Since:   ev.OccurredAt.Add(-2 * time.Minute),
			Limit:   20,
		}).
		Return(nil, nil)
	mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(`{"shouldAlert":true}`, nil)

	s := service.NewDenoiseService(denoiseConfig(), mockRepo, mockLLM, metrics.NewTestCounters())
	assert.True(t, s.ShouldAlert(context.Background(), ev).ShouldAlert)
}

func TestDenoiseService_CachesDecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository_mock.NewMockExceptionRecord(ctrl)
	mockLLM := llm_mock.NewMockCompleter(ctrl)

	mockRepo.EXPECT().FindRecent(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
	mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(`{"shouldAlert":false,"reason":"noise"}`, nil).
		Times(1)

	s := service.NewDenoiseService(denoiseConfig(), mockRepo, mockLLM, metrics.NewTestCounters())

	first := s.ShouldAlert(context.Background(), denoiseEvent())
	second := s.ShouldAlert(context.Background(), denoiseEvent())

	assert.Equal(t, first, second)

	st := s.Stats()
	assert.Equal(t, int64(2), st.Checked)
	assert.Equal(t, int64(1), st.CacheHits)
	assert.Equal(t, int64(1), st.AICalls)
	assert.Equal(t, int64(2), st.Filtered)
	assert.Equal(t, 0.5, st.HitRate)
}

func TestDenoiseService_FallbackNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository_mock.NewMockExceptionRecord(ctrl)
	mockLLM := llm_mock.NewMockCompleter(ctrl)

	mockRepo.EXPECT().FindRecent(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	gomock.InOrder(
		mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("timeout")),
		mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(`{"shouldAlert":false}`, nil),
	)

	s := service.NewDenoiseService(denoiseConfig(), mockRepo, mockLLM, metrics.NewTestCounters())

	assert.True(t, s.ShouldAlert(context.Background(), denoiseEvent()).ShouldAlert)
	assert.False(t, s.ShouldAlert(context.Background(), denoiseEvent()).ShouldAlert)
}

func TestDenoiseService_ConcurrentMissesShareOneCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository_mock.NewMockExceptionRecord(ctrl)
	mockLLM := llm_mock.NewMockCompleter(ctrl)

	release := make(chan struct{})
	mockRepo.EXPECT().FindRecent(gomock.Any(), gomock.Any()).Return(nil, nil).MaxTimes(8)
	mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string) (string, error) {
			<-release
			return `{"shouldAlert":true}`, nil
		}).
		MinTimes(1).
		MaxTimes(8)

	s := service.NewDenoiseService(denoiseConfig(), mockRepo, mockLLM, metrics.NewTestCounters())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, s.ShouldAlert(context.Background(), denoiseEvent()).ShouldAlert)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	st := s.Stats()
	assert.Equal(t, int64(8), st.Checked)
	assert.Equal(t, st.Checked, st.CacheHits+st.AICalls)
}

func TestDenoiseService_LeaderCancellationNotShared(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository_mock.NewMockExceptionRecord(ctrl)
	mockLLM := llm_mock.NewMockCompleter(ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})
	mockRepo.EXPECT().FindRecent(gomock.Any(), gomock.Any()).Return(nil, nil)
	mockLLM.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _ string) (string, error) {
			close(entered)
			<-release
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return `{"shouldAlert":false,"isDuplicate":true,"reason":"same incident"}`, nil
		}).
		Times(1)

	s := service.NewDenoiseService(denoiseConfig(), mockRepo, mockLLM, metrics.NewTestCounters())

	leaderCtx, cancel := context.WithCancel(context.Background())
	results := make(chan domain.DenoiseDecision, 2)
	go func() { results <- s.ShouldAlert(leaderCtx, denoiseEvent()) }()

	<-entered
	cancel()
	go func() { results <- s.ShouldAlert(context.Background(), denoiseEvent()) }()
	time.Sleep(20 * time.Millisecond)
	close(release)

	for range 2 {
		d := <-results
		assert.False(t, d.ShouldAlert)
		assert.Equal(t, "same incident", d.Reason)
	}
}
