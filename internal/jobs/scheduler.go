package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Eco-nexion/econexion/internal/events"
)

// Scheduler enqueues periodic maintenance work for the worker to pick up.
type Scheduler struct {
	cron      *cron.Cron
	publisher *events.Publisher
	log       zerolog.Logger
}

func NewScheduler(publisher *events.Publisher, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		publisher: publisher,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if s.publisher == nil {
		return nil
	}

	// Nightly prune of read notifications.
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.enqueueCleanup); err != nil {
		return err
	}

	// Hourly sweep rejecting pending offers nobody decided on.
	if _, err := s.cron.AddFunc("0 0 * * * *", s.enqueueOfferExpiry); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish, up to a grace period.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) enqueueCleanup() {
	if err := s.publisher.Publish(context.Background(), events.TypeCleanup, nil); err != nil {
		s.log.Error().Err(err).Msg("enqueue cleanup failed")
	}
}

func (s *Scheduler) enqueueOfferExpiry() {
	if err := s.publisher.Publish(context.Background(), events.TypeOfferExpiry, nil); err != nil {
		s.log.Error().Err(err).Msg("enqueue offer expiry failed")
	}
}
