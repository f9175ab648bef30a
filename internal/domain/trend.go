package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TrendIncreasing = "INCREASING"
	TrendDecreasing = "DECREASING"
	TrendStable     = "STABLE"
)

const (
	AlertLevelCritical = "CRITICAL"
	AlertLevelHigh     = "HIGH"
	AlertLevelMedium   = "MEDIUM"
)

type DailyTrendStat struct {
	ServiceName        string    `db:"service_name" json:"serviceName"`
	StatDate           time.Time `db:"stat_date" json:"statDate"`
	ExceptionType      string    `db:"exception_type" json:"exceptionType"`
	TotalCount         int64     `db:"total_count" json:"totalCount"`
	UniqueFingerprints int64     `db:"unique_fingerprints" json:"uniqueFingerprints"`
	P0Count            int64     `db:"p0_count" json:"p0Count"`
	P1Count            int64     `db:"p1_count" json:"p1Count"`
	P2Count            int64     `db:"p2_count" json:"p2Count"`
	P3Count            int64     `db:"p3_count" json:"p3Count"`
	P4Count            int64     `db:"p4_count" json:"p4Count"`
}

type HourlyTrendStat struct {
	ServiceName   string    `db:"service_name" json:"serviceName"`
	StatDate      time.Time `db:"stat_date" json:"statDate"`
	StatHour      int       `db:"stat_hour" json:"statHour"`
	ExceptionType string    `db:"exception_type" json:"exceptionType"`
	TotalCount    int64     `db:"total_count" json:"totalCount"`
}

type TrendPoint struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

type TrendAlert struct {
	ServiceName string          `json:"serviceName"`
	Level       string          `json:"level"`
	Trend       string          `json:"trend"`
	ChangeRate  decimal.Decimal `json:"changeRate"`
	Owner       string          `json:"owner"`
	Message     string          `json:"message"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TrendReport is computed on demand and never stored.
type TrendReport struct {
	ServiceName string          `json:"serviceName"`
	Days        int             `json:"days"`
	Trend       string          `json:"trend"`
	Slope       float64         `json:"slope"`
	ChangeRate  decimal.Decimal `json:"changeRate"`
	History     []TrendPoint    `json:"history"`
	Forecast    []TrendPoint    `json:"forecast"`
	PeakHours   map[int]int64   `json:"peakHours"`
	Alert       *TrendAlert     `json:"alert,omitempty"`
}
