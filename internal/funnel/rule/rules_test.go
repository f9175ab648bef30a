package rule_test

import (
	"context"
	"testing"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/funnel/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 5, 10, hour, 30, 0, 0, time.Local)
	}
}

func TestFrequencyLimit_EleventhIsVetoed(t *testing.T) {
	r := rule.NewFrequencyLimit(config.FrequencyLimit{
		Enabled: true, Window: 5 * time.Minute, MaxCount: 10, MaxEntries: 100, Priority: 10,
	})
	ev := &domain.ExceptionEvent{Fingerprint: "storm"}

	for i := 1; i <= 10; i++ {
		veto, err := r.ShouldFilter(context.Background(), ev)
		require.NoError(t, err)
		assert.False(t, veto, "event %d", i)
	}

	veto, err := r.ShouldFilter(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, veto)
	assert.Equal(t, "exceeded frequency limit (5 min > 10 times)", r.Reason())

	other, _ := r.ShouldFilter(context.Background(), &domain.ExceptionEvent{Fingerprint: "calm"})
	assert.False(t, other)

	st := r.Stats()
	assert.Equal(t, int64(12), st.Checked)
	assert.Equal(t, int64(1), st.Filtered)
}

func TestFrequencyLimit_WindowResets(t *testing.T) {
	r := rule.NewFrequencyLimit(config.FrequencyLimit{
		Enabled: true, Window: 40 * time.Millisecond, MaxCount: 1, MaxEntries: 100,
	})
	ev := &domain.ExceptionEvent{Fingerprint: "fp"}

	first, _ := r.ShouldFilter(context.Background(), ev)
	second, _ := r.ShouldFilter(context.Background(), ev)
	assert.False(t, first)
	assert.True(t, second)

	time.Sleep(80 * time.Millisecond)
	again, _ := r.ShouldFilter(context.Background(), ev)
	assert.False(t, again)
}

func TestTimeWindow(t *testing.T) {
	npe := &domain.ExceptionEvent{ExceptionType: "NullPointerException", Environment: "prod"}
	oom := &domain.ExceptionEvent{ExceptionType: "OutOfMemoryError", Environment: "prod"}

	testCases := []struct {
		name  string
		quiet string
		hour  int
		ev    *domain.ExceptionEvent
		want  bool
	}{
		{name: "wrap late evening", quiet: "22-6", hour: 23, ev: npe, want: true},
		{name: "wrap early morning", quiet: "22-6", hour: 3, ev: npe, want: true},
		{name: "wrap end is exclusive", quiet: "22-6", hour: 6, ev: npe, want: false},
		{name: "wrap daytime", quiet: "22-6", hour: 14, ev: npe, want: false},
		{name: "allowed severity passes", quiet: "22-6", hour: 23, ev: oom, want: false},
		{name: "plain range inside", quiet: "2-6", hour: 2, ev: npe, want: true},
		{name: "plain range outside", quiet: "2-6", hour: 22, ev: npe, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := rule.NewTimeWindow(config.TimeWindow{
				Enabled: true, QuietHours: tc.quiet, AllowedSeverities: []string{domain.SeverityP0}, Priority: 20,
			}, rule.WithClock(at(tc.hour)))

			got, err := r.ShouldFilter(context.Background(), tc.ev)

			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTimeWindow_BadConfigIsAnError(t *testing.T) {
	r := rule.NewTimeWindow(config.TimeWindow{Enabled: true, QuietHours: "late"}, rule.WithClock(at(1)))

	veto, err := r.ShouldFilter(context.Background(), &domain.ExceptionEvent{})

	assert.Error(t, err)
	assert.False(t, veto)

	e := rule.NewEngine(true, r)
	_, vetoed := e.Evaluate(context.Background(), &domain.ExceptionEvent{})
	assert.False(t, vetoed)
}

func TestEnvironment(t *testing.T) {
	r := rule.NewEnvironment(config.EnvironmentRule{
		Enabled:              true,
		TestFilterSeverities: []string{domain.SeverityP3, domain.SeverityP4},
		ProdFilterSeverities: []string{domain.SeverityP4},
		Priority:             30,
	})

	testCases := []struct {
		name string
		ev   domain.ExceptionEvent
		want bool
	}{
		{name: "dev low severity", ev: domain.ExceptionEvent{ExceptionType: "RuntimeException", Environment: "dev"}, want: true},
		{name: "test npe is P3", ev: domain.ExceptionEvent{ExceptionType: "NullPointerException", Environment: "test-eu"}, want: true},
		{name: "local sql is P1", ev: domain.ExceptionEvent{ExceptionType: "SQLException", Environment: "local"}, want: false},
		{name: "prod runtime is P3", ev: domain.ExceptionEvent{ExceptionType: "RuntimeException", Environment: "prod"}, want: false},
		{name: "unknown env", ev: domain.ExceptionEvent{ExceptionType: "RuntimeException", Environment: "staging"}, want: false},
		{name: "empty env", ev: domain.ExceptionEvent{ExceptionType: "RuntimeException"}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.ShouldFilter(context.Background(), &tc.ev)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
