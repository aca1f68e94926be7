package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is a named unit of periodic work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler runs its jobs once at startup and then on every tick of interval.
// Jobs run sequentially and a tick that arrives while a run is in progress is dropped.
type Scheduler struct {
	jobs     []Job
	interval time.Duration
	logger   *logrus.Logger
	stopChan chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
	stopOnce sync.Once
}

// NewScheduler creates a new scheduler
func NewScheduler(interval time.Duration, logger *logrus.Logger, jobs ...Job) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:     jobs,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

// runScheduler handles all scheduled tasks
func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	s.logger.Info("Running startup jobs")
	s.runJobs()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runJobs()
		}
	}
}

func (s *Scheduler) runJobs() {
	if !s.jobMutex.TryLock() {
		s.logger.Debug("Skipping scheduled jobs while a run is in progress")
		return
	}
	defer s.jobMutex.Unlock()

	for _, job := range s.jobs {
		if s.ctx.Err() != nil {
			return
		}

		start := time.Now()
		entry := s.logger.WithField("job", job.Name)
		entry.Info("Starting job")

		if err := job.Run(s.ctx); err != nil {
			entry.WithError(err).Error("Job failed")
			continue
		}
		entry.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Job completed successfully")
	}
}

// Stop cancels running jobs and waits for the scheduler to exit
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		close(s.stopChan)
	})
	s.wg.Wait()
}
