package service

import "fmt"

var (
	ErrCannotPersistRecord  = fmt.Errorf("cannot persist exception record")
	ErrCannotGenerateTicket = fmt.Errorf("cannot generate ticket")
	ErrCannotAnalyzeTrend   = fmt.Errorf("cannot analyze trend")
	ErrEmptyAIResponse      = fmt.Errorf("empty AI response")
	ErrNoJSONObject         = fmt.Errorf("no JSON object in AI response")
)
