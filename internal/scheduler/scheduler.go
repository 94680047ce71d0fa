// Package scheduler runs the daily and weekly pipelines on cron specs.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron. Jobs added before Start share ctx.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

func New(ctx context.Context) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		ctx:  ctx,
	}
}

// Add registers task under a five-field cron spec or descriptor such as
// "@daily". An empty spec leaves the task unscheduled.
func (s *Scheduler) Add(name, spec string, task Task) error {
	if spec == "" {
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		log.Info().Str("task", name).Msg("scheduled run")
		if err := task(s.ctx); err != nil {
			log.Error().Err(err).Str("task", name).Msg("scheduled run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	log.Info().Str("task", name).Str("spec", spec).Msg("task scheduled")
	return nil
}

func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("entries", s.Entries()).Msg("scheduler started")
}

// Stop waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}
