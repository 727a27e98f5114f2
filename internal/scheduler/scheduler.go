package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/railzwaylabs/subcommerce/internal/config"
	renewaldomain "github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const renewalJobName = "subscription-renewal"

// Runner is the job the scheduler drives.
type Runner interface {
	Run(ctx context.Context, trigger renewaldomain.Trigger) (renewaldomain.Run, error)
}

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Runner renewaldomain.Service
}

// Scheduler owns the renewal timer for the process. Start and Stop may be
// called any number of times; at most one timer exists at once.
type Scheduler struct {
	runner     Runner
	log        *zap.Logger
	interval   time.Duration
	runOnStart bool

	mu         sync.Mutex
	cron       gocron.Scheduler
	executions atomic.Int64
}

func New(p Params) *Scheduler {
	return NewWithRunner(p.Runner, p.Config.Renewal.Interval, p.Config.Renewal.RunOnStart, p.Log)
}

func NewWithRunner(runner Runner, interval time.Duration, runOnStart bool, log *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		log:        log.Named("scheduler"),
		interval:   interval,
		runOnStart: runOnStart,
	}
}

// Start registers the renewal job and starts the timer. Calling Start on a
// running scheduler is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.log.Debug("scheduler already running")
		return nil
	}

	cron, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	opts := []gocron.JobOption{
		gocron.WithName(renewalJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if s.runOnStart {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	if _, err := cron.NewJob(gocron.DurationJob(s.interval), gocron.NewTask(s.tick), opts...); err != nil {
		_ = cron.Shutdown()
		return err
	}

	s.executions.Store(0)
	cron.Start()
	s.cron = cron
	s.log.Info("scheduler started",
		zap.String("job", renewalJobName),
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_start", s.runOnStart),
	)
	return nil
}

// Stop waits for a running tick to finish and removes the timer.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}
	err := s.cron.Shutdown()
	s.cron = nil
	s.log.Info("scheduler stopped")
	return err
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// JobCount reports how many jobs the live timer holds.
func (s *Scheduler) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return 0
	}
	return len(s.cron.Jobs())
}

func (s *Scheduler) tick() {
	trigger := renewaldomain.TriggerInterval
	if s.executions.Add(1) == 1 && s.runOnStart {
		trigger = renewaldomain.TriggerStartup
	}

	run, err := s.runner.Run(context.Background(), trigger)
	switch {
	case errors.Is(err, renewaldomain.ErrRunInProgress):
		s.log.Info("renewal tick skipped, run in progress", zap.String("trigger", string(trigger)))
	case err != nil:
		s.log.Error("renewal tick failed", zap.String("trigger", string(trigger)), zap.Error(err))
	default:
		s.log.Debug("renewal tick done",
			zap.String("trigger", string(trigger)),
			zap.String("run_id", run.RunID),
			zap.Int("renewed", run.Renewed),
		)
	}
}
