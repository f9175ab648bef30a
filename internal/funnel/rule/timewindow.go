package rule

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/severity"
)

const TimeWindowName = "TimeWindowRule"

// TimeWindow silences everything but the allowed severities during quiet hours.
type TimeWindow struct {
	base
	startHour int
	endHour   int
	parseErr  error
	allowed   []string
}

func NewTimeWindow(cfg config.TimeWindow, opts ...Option) *TimeWindow {
	r := &TimeWindow{allowed: cfg.AllowedSeverities}
	r.init(TimeWindowName, cfg.Priority, cfg.Enabled, opts)
	r.startHour, r.endHour, r.parseErr = ParseQuietHours(cfg.QuietHours)
	return r
}

// ParseQuietHours parses "HH-HH", e.g. "22-6".
func ParseQuietHours(s string) (int, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("quiet hours %q: want HH-HH", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("quiet hours %q: %w", s, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("quiet hours %q: %w", s, err)
	}
	if start < 0 || start > 23 || end < 0 || end > 24 {
		return 0, 0, fmt.Errorf("quiet hours %q: hour out of range", s)
	}
	return start, end, nil
}

func (r *TimeWindow) Reason() string {
	return fmt.Sprintf("quiet hours %02d-%02d, only %s allowed", r.startHour, r.endHour, strings.Join(r.allowed, ","))
}

func (r *TimeWindow) inQuietHours(hour int) bool {
	if r.startHour > r.endHour {
		return hour >= r.startHour || hour < r.endHour
	}
	return hour >= r.startHour && hour < r.endHour
}

func (r *TimeWindow) ShouldFilter(_ context.Context, ev *domain.ExceptionEvent) (bool, error) {
	r.checked.Add(1)
	if r.parseErr != nil {
		return false, r.parseErr
	}
	if !r.inQuietHours(r.now().Hour()) {
		return false, nil
	}
	if contains(r.allowed, severity.Calculate(ev.ExceptionType, ev.Environment)) {
		return false, nil
	}
	r.filtered.Add(1)
	return true, nil
}
