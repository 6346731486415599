// Package scheduler runs periodic maintenance jobs on a cron schedule.
// Currently that is removing expired Idempotency-Key records so the table
// does not grow without bound.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/tutor-admin-backend/internal/repo"
)

// PurgeFunc deletes records that expired before now and reports how many.
type PurgeFunc func(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)

// jobTimeout bounds a single purge run.
const jobTimeout = time.Minute

// IdempotencyPurger deletes expired idempotency records on a cron spec such
// as "@every 1h" or "0 3 * * *".
type IdempotencyPurger struct {
	cronEngine *cron.Cron
	db         *gorm.DB
	spec       string
	purge      PurgeFunc
	now        func() time.Time
}

// NewIdempotencyPurger builds a purger backed by repo.PurgeExpiredIdempotency.
func NewIdempotencyPurger(db *gorm.DB, spec string) *IdempotencyPurger {
	return &IdempotencyPurger{
		cronEngine: cron.New(cron.WithLocation(time.UTC)),
		db:         db,
		spec:       spec,
		purge:      repo.PurgeExpiredIdempotency,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start registers the job and starts the cron engine in its own goroutine.
// An invalid spec is returned as an error and nothing is started.
func (p *IdempotencyPurger) Start() error {
	if p.spec == "" {
		return errors.New("scheduler: empty purge spec")
	}
	if _, err := p.cronEngine.AddFunc(p.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		_, _ = p.RunOnce(ctx)
	}); err != nil {
		return err
	}
	p.cronEngine.Start()
	log.Info().Str("spec", p.spec).Msg("idempotency purge scheduled")
	return nil
}

// RunOnce performs one purge immediately.
func (p *IdempotencyPurger) RunOnce(ctx context.Context) (int64, error) {
	n, err := p.purge(ctx, p.db, p.now())
	if err != nil {
		log.Error().Err(err).Msg("idempotency purge failed")
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("expired idempotency keys purged")
	}
	return n, nil
}

// Stop halts the schedule and waits for a running job until ctx is done.
func (p *IdempotencyPurger) Stop(ctx context.Context) error {
	done := p.cronEngine.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
