package repotypes

import "time"

type RecentFilter struct {
	AppName string
	Since   time.Time
	Limit   int
}

// DayRange is the half-open interval [From, To).
type DayRange struct {
	From time.Time
	To   time.Time
}

func Day(t time.Time) DayRange {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return DayRange{From: from, To: from.AddDate(0, 0, 1)}
}
