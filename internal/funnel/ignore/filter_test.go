package ignore_test

import (
	"testing"

	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/funnel/ignore"
	"github.com/stretchr/testify/assert"
)

func TestFilter_ShouldIgnore(t *testing.T) {
	cfg := config.Ignore{
		Enabled:         true,
		AppNames:        []string{"legacy-batch"},
		Environments:    []string{"local"},
		ExceptionTypes:  []string{"ClientAbortException", "context.Canceled"},
		Packages:        []string{"org.apache.catalina"},
		ErrorLocations:  []string{"com.acme.Health.ping:10", "*.heartbeat", "com.acme.Noise.*"},
		MessageKeywords: []string{"Broken Pipe"},
		HTTPStatusCodes: []int{404},
	}

	base := func() *domain.ExceptionEvent {
		return &domain.ExceptionEvent{
			AppName:       "order-service",
			Environment:   "prod",
			ExceptionType: "java.lang.IllegalStateException",
			Message:       "order state invalid",
			ErrorLocation: "com.acme.OrderService.pay:55",
		}
	}

	testCases := []struct {
		name   string
		mutate func(ev *domain.ExceptionEvent)
		want   bool
	}{
		{name: "passes", mutate: func(ev *domain.ExceptionEvent) {}, want: false},
		{name: "app", mutate: func(ev *domain.ExceptionEvent) { ev.AppName = "legacy-batch" }, want: true},
		{name: "environment", mutate: func(ev *domain.ExceptionEvent) { ev.Environment = "local" }, want: true},
		{name: "exact type", mutate: func(ev *domain.ExceptionEvent) { ev.ExceptionType = "context.Canceled" }, want: true},
		{
			name:   "simple type name",
			mutate: func(ev *domain.ExceptionEvent) { ev.ExceptionType = "org.apache.catalina.connector.ClientAbortException" },
			want:   true,
		},
		{
			name:   "package prefix",
			mutate: func(ev *domain.ExceptionEvent) { ev.ErrorLocation = "org.apache.catalina.core.Valve.invoke:12" },
			want:   true,
		},
		{name: "exact location", mutate: func(ev *domain.ExceptionEvent) { ev.ErrorLocation = "com.acme.Health.ping:10" }, want: true},
		{name: "exact location other line", mutate: func(ev *domain.ExceptionEvent) { ev.ErrorLocation = "com.acme.Health.ping:11" }, want: false},
		{name: "method wildcard", mutate: func(ev *domain.ExceptionEvent) { ev.ErrorLocation = "com.acme.Agent.heartbeat:99" }, want: true},
		{name: "class wildcard", mutate: func(ev *domain.ExceptionEvent) { ev.ErrorLocation = "com.acme.Noise.emit:1" }, want: true},
		{name: "keyword case insensitive", mutate: func(ev *domain.ExceptionEvent) { ev.Message = "write: broken pipe" }, want: true},
		{name: "http status", mutate: func(ev *domain.ExceptionEvent) { ev.Message = "upstream returned HTTP 404" }, want: true},
		{name: "other status", mutate: func(ev *domain.ExceptionEvent) { ev.Message = "upstream returned HTTP 500" }, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := ignore.New(cfg)
			ev := base()
			tc.mutate(ev)

			assert.Equal(t, tc.want, f.ShouldIgnore(ev))

			st := f.Stats()
			assert.Equal(t, int64(1), st.Checked)
			if tc.want {
				assert.Equal(t, int64(1), st.Filtered)
			} else {
				assert.Equal(t, int64(0), st.Filtered)
			}
		})
	}
}

func TestFilter_Disabled(t *testing.T) {
	f := ignore.New(config.Ignore{Enabled: false, Environments: []string{"local"}})

	assert.False(t, f.ShouldIgnore(&domain.ExceptionEvent{Environment: "local"}))
	assert.Equal(t, int64(0), f.Stats().Checked)
}

func TestFilter_ResetStats(t *testing.T) {
	f := ignore.New(config.Ignore{Enabled: true, Environments: []string{"local"}})
	f.ShouldIgnore(&domain.ExceptionEvent{Environment: "local"})

	f.ResetStats()

	assert.Equal(t, domain.LayerStats{Layer: ignore.LayerName}, f.Stats())
}
