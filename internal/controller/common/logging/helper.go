package logginghelper

import (
	"github.com/Egor213/ExceptionSieve/internal/domain"
	log "github.com/sirupsen/logrus"
)

func eventFields(ev *domain.ExceptionEvent) log.Fields {
	return log.Fields{
		"app":         ev.AppName,
		"fingerprint": ev.Fingerprint,
		"type":        ev.ExceptionType,
		"location":    ev.ErrorLocation,
	}
}

func LogReceived(ev *domain.ExceptionEvent, source string) {
	log.WithFields(eventFields(ev)).
		WithField("source", source).
		Debug("Received exception")
}

func LogFiltered(ev *domain.ExceptionEvent, layer, reason string) {
	log.WithFields(eventFields(ev)).
		WithFields(log.Fields{"layer": layer, "reason": reason}).
		Debug("Exception filtered")
}

func LogSurvived(ev *domain.ExceptionEvent) {
	log.WithFields(eventFields(ev)).Info("Exception survived the funnel")
}

func LogDropped(ev *domain.ExceptionEvent, reason string) {
	log.WithFields(log.Fields{
		"app":    ev.AppName,
		"type":   ev.ExceptionType,
		"reason": reason,
	}).Warn("Malformed exception dropped")
}

func LogFailure(ev *domain.ExceptionEvent, stage string, err error) {
	log.WithFields(eventFields(ev)).
		WithFields(log.Fields{"stage": stage, "error": err}).
		Error("Exception processing failed")
}
