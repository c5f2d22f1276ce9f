// Package jobs runs periodic maintenance in the background.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"spartanfitness/api/internal/metrics"
	"spartanfitness/api/internal/repository"
)

// TokenCleanup deletes password reset tokens that can no longer be used.
type TokenCleanup struct {
	tokens  repository.PasswordResetTokenRepository
	log     logrus.FieldLogger
	timeout time.Duration
	now     func() time.Time
}

func NewTokenCleanup(tokens repository.PasswordResetTokenRepository, log logrus.FieldLogger) *TokenCleanup {
	return &TokenCleanup{
		tokens:  tokens,
		log:     log,
		timeout: time.Minute,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run performs one cleanup pass and reports how many tokens were removed.
func (j *TokenCleanup) Run(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	n, err := j.tokens.DeleteStale(ctx, j.now())
	if err != nil {
		return 0, fmt.Errorf("delete stale reset tokens: %w", err)
	}
	metrics.RecordCleanup(n)
	return n, nil
}

// Scheduler wraps a cron instance running the maintenance jobs.
type Scheduler struct {
	cron *cron.Cron
	log  logrus.FieldLogger
}

// NewScheduler registers cleanup on schedule, a standard cron spec or a
// descriptor such as "@every 1h". An empty schedule yields a scheduler with no jobs.
func NewScheduler(schedule string, cleanup *TokenCleanup, log logrus.FieldLogger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})))
	if schedule != "" {
		_, err := c.AddFunc(schedule, func() {
			n, err := cleanup.Run(context.Background())
			if err != nil {
				log.WithError(err).Error("token cleanup failed")
				return
			}
			log.WithField("deleted", n).Info("token cleanup finished")
		})
		if err != nil {
			return nil, fmt.Errorf("schedule token cleanup %q: %w", schedule, err)
		}
	}
	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.log.WithField("jobs", len(s.cron.Entries())).Info("scheduler started")
	s.cron.Start()
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
