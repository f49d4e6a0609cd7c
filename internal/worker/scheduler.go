package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	flog "fintrack/internal/log"
)

// Job is one unit of scheduled work.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }
func (j JobFunc) Name() string                  { return j.JobName }

// Scheduler runs jobs on standard five-field cron specs or descriptors such
// as @daily and @every 1h.
type Scheduler struct {
	cron    *cron.Cron
	log     *slog.Logger
	ctx     context.Context
	timeout time.Duration
}

// NewScheduler returns a stopped scheduler. Every run gets a context derived
// from ctx and bounded by timeout.
func NewScheduler(ctx context.Context, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		log:     logger.With(flog.FieldComponent, flog.ComponentScheduler),
		ctx:     ctx,
		timeout: timeout,
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() { _ = s.RunNow(job) })
	if err != nil {
		return err
	}
	s.log.Info("Job registered", "schedule", schedule, "job", job.Name())
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	s.log.Debug("Running job", "job", job.Name())
	if err := job.Run(ctx); err != nil {
		s.log.Error("Job failed", "job", job.Name(), "error", err)
		return err
	}
	s.log.Debug("Job completed", "job", job.Name())
	return nil
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
