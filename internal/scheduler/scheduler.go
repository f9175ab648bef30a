// Package scheduler runs the periodic rollups and sweeps on cron specs.
package scheduler

import (
	"context"
	"time"

	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const (
	defaultJobTimeout  = 30 * time.Minute
	defaultStopTimeout = 10 * time.Second
)

type Option func(*Scheduler)

// WithJobTimeout bounds every run; zero keeps the default.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.jobTimeout = d
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.cronOpts = append(s.cronOpts, cron.WithLocation(loc))
	}
}

type Scheduler struct {
	cron        *cron.Cron
	cronOpts    []cron.Option
	names       map[cron.EntryID]string
	jobTimeout  time.Duration
	stopTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a scheduler for standard five-field specs. A panicking job is
// logged and recovered, and a job still running when its next turn comes is skipped.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		names:       make(map[cron.EntryID]string),
		jobTimeout:  defaultJobTimeout,
		stopTimeout: defaultStopTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	logger := cron.PrintfLogger(log.StandardLogger())
	s.cronOpts = append(s.cronOpts,
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	s.cron = cron.New(s.cronOpts...)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Register adds fn under spec. Errors returned by fn are logged, never retried.
func (s *Scheduler) Register(name, spec string, fn func(ctx context.Context) error) error {
	id, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.jobTimeout)
		defer cancel()

		started := time.Now()
		logger := log.WithField("job", name)
		logger.Info("Job started")
		if err := fn(ctx); err != nil {
			logger.WithFields(log.Fields{
				"error": err,
				"took":  time.Since(started),
			}).Error("Job failed")
			return
		}
		logger.WithField("took", time.Since(started)).Info("Job finished")
	})
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	s.names[id] = name
	return nil
}

func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		log.WithFields(log.Fields{
			"job":  s.names[e.ID],
			"next": e.Next,
		}).Info("Job scheduled")
	}
}

// Stop waits for running jobs up to the stop timeout, then cancels them.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(s.stopTimeout):
		log.Warn("Scheduler stop timed out, cancelling running jobs")
	}
	s.cancel()
}
