package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/metrics"
)

// Job is one unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Locker serializes job runs across worker replicas.
type Locker interface {
	Acquire(ctx context.Context, name string) (bool, error)
}

// Registry holds the jobs a worker runs each tick.
type Registry struct {
	jobs []Job
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

func (r *Registry) Jobs() []Job {
	out := make([]Job, len(r.jobs))
	copy(out, r.jobs)
	return out
}

// Service drives the registry on a fixed interval.
type Service struct {
	registry *Registry
	locker   Locker
	logg     *logger.Logger
	jobs     *metrics.CronJobMetrics
	interval time.Duration
}

type ServiceParams struct {
	Registry *Registry
	Locker   Locker
	Logger   *logger.Logger
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Registry == nil {
		return nil, errors.New(errors.CodeInternal, "cron service requires a registry")
	}
	if params.Locker == nil {
		return nil, errors.New(errors.CodeInternal, "cron service requires a locker")
	}
	if params.Logger == nil {
		return nil, errors.New(errors.CodeInternal, "cron service requires a logger")
	}
	if params.Interval <= 0 {
		params.Interval = 24 * time.Hour
	}
	return &Service{
		registry: params.Registry,
		locker:   params.Locker,
		logg:     params.Logger,
		jobs:     params.Metrics,
		interval: params.Interval,
	}, nil
}

// Start runs one pass immediately, then one per interval until the context
// is canceled.
func (s *Service) Start(ctx context.Context) error {
	if err := s.RunOnce(ctx); err != nil {
		s.logg.Error(ctx, "cron pass finished with errors", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logg.Error(ctx, "cron pass finished with errors", err)
			}
		}
	}
}

// RunOnce executes every registered job, collecting failures so one bad
// job never blocks the rest.
func (s *Service) RunOnce(ctx context.Context) error {
	var combined error
	for _, job := range s.registry.Jobs() {
		if err := s.runJob(ctx, job); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("%s: %w", job.Name(), err))
		}
	}
	return combined
}

func (s *Service) runJob(ctx context.Context, job Job) error {
	acquired, err := s.locker.Acquire(ctx, job.Name())
	if err != nil {
		return err
	}
	if !acquired {
		s.logg.Info(s.logg.WithField(ctx, "job", job.Name()), "skipping job, lock held elsewhere")
		return nil
	}

	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	started := time.Now()
	err = job.Run(jobCtx)
	s.jobs.ObserveDuration(job.Name(), time.Since(started))
	if err != nil {
		s.jobs.IncFailure(job.Name())
		s.logg.Error(jobCtx, "job failed", err)
		return err
	}
	s.jobs.IncSuccess(job.Name())
	s.logg.Info(jobCtx, "job completed")
	return nil
}
