package rule_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/funnel/rule"
	"github.com/stretchr/testify/assert"
)

type stubRule struct {
	name     string
	priority int
	enabled  bool
	veto     bool
	err      error
	panics   bool
	calls    int
}

func (s *stubRule) Name() string   { return s.name }
func (s *stubRule) Reason() string { return s.name + " reason" }
func (s *stubRule) Priority() int  { return s.priority }
func (s *stubRule) Enabled() bool  { return s.enabled }

func (s *stubRule) ShouldFilter(context.Context, *domain.ExceptionEvent) (bool, error) {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.veto, s.err
}

func (s *stubRule) Stats() domain.RuleStats {
	return domain.RuleStats{Name: s.name, LayerStats: domain.LayerStats{Checked: int64(s.calls)}}
}

func (s *stubRule) ResetStats() { s.calls = 0 }

func TestEngine_Evaluate(t *testing.T) {
	ev := &domain.ExceptionEvent{Fingerprint: "fp"}

	testCases := []struct {
		name       string
		rules      func() []*stubRule
		wantVeto   bool
		wantRule   string
		wantCalled map[string]int
	}{
		{
			name: "lowest priority veto wins",
			rules: func() []*stubRule {
				return []*stubRule{
					{name: "B", priority: 20, enabled: true, veto: true},
					{name: "A", priority: 10, enabled: true, veto: true},
				}
			},
			wantVeto:   true,
			wantRule:   "A",
			wantCalled: map[string]int{"A": 1, "B": 0},
		},
		{
			name: "disabled rule skipped",
			rules: func() []*stubRule {
				return []*stubRule{
					{name: "A", priority: 10, enabled: false, veto: true},
					{name: "B", priority: 20, enabled: true, veto: true},
				}
			},
			wantVeto:   true,
			wantRule:   "B",
			wantCalled: map[string]int{"A": 0, "B": 1},
		},
		{
			name: "erroring rule is not a veto",
			rules: func() []*stubRule {
				return []*stubRule{
					{name: "A", priority: 10, enabled: true, veto: true, err: errors.New("broken")},
					{name: "B", priority: 20, enabled: true},
				}
			},
			wantVeto:   false,
			wantCalled: map[string]int{"A": 1, "B": 1},
		},
		{
			name: "panicking rule is not a veto",
			rules: func() []*stubRule {
				return []*stubRule{
					{name: "A", priority: 10, enabled: true, panics: true},
					{name: "B", priority: 20, enabled: true, veto: true},
				}
			},
			wantVeto:   true,
			wantRule:   "B",
			wantCalled: map[string]int{"A": 1, "B": 1},
		},
		{
			name: "no veto",
			rules: func() []*stubRule {
				return []*stubRule{{name: "A", priority: 10, enabled: true}}
			},
			wantVeto:   false,
			wantCalled: map[string]int{"A": 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stubs := tc.rules()
			rules := make([]rule.Rule, 0, len(stubs))
			for _, s := range stubs {
				rules = append(rules, s)
			}
			e := rule.NewEngine(true, rules...)

			verdict, veto := e.Evaluate(context.Background(), ev)

			assert.Equal(t, tc.wantVeto, veto)
			if tc.wantVeto {
				assert.Equal(t, tc.wantRule, verdict.Rule)
				assert.Equal(t, tc.wantRule+" reason", verdict.Reason)
			}
			for _, s := range stubs {
				assert.Equal(t, tc.wantCalled[s.name], s.calls, s.name)
			}
		})
	}
}

func TestEngine_DisabledAndStats(t *testing.T) {
	a := &stubRule{name: "A", priority: 1, enabled: true, veto: true}
	off := rule.NewEngine(false, a)
	_, veto := off.Evaluate(context.Background(), &domain.ExceptionEvent{})
	assert.False(t, veto)
	assert.Equal(t, 0, a.calls)

	e := rule.NewEngine(true, a)
	e.Evaluate(context.Background(), &domain.ExceptionEvent{})
	layer, perRule := e.Stats()
	assert.Equal(t, int64(1), layer.Checked)
	assert.Equal(t, int64(1), layer.Filtered)
	assert.Len(t, perRule, 1)

	e.ResetStats()
	layer, _ = e.Stats()
	assert.Equal(t, int64(0), layer.Checked)
	assert.Equal(t, 0, a.calls)
}
