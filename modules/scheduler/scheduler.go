// Package scheduler provides a cron component. Jobs are added before the
// application runs; Run executes them on their schedules until its context
// is cancelled, and BeforeShutdown stops anything still running.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/logging"
)

// ComponentID is the identifier the Scheduler component registers under.
var ComponentID = component.TypeID[Scheduler]()

// ThreadName is the thread manager name conventionally used for Run.
const ThreadName = "bootkit::scheduler"

// JobFunc is the work done on each tick of a job's schedule.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	spec     string
	schedule cron.Schedule
	fn       JobFunc

	runs     atomic.Int64
	failures atomic.Int64
}

// Entry describes a scheduled job.
type Entry struct {
	Name     string    `json:"name"`
	Spec     string    `json:"spec"`
	Disabled bool      `json:"disabled,omitempty"`
	Next     time.Time `json:"next,omitzero"`
	Runs     int64     `json:"runs"`
	Failures int64     `json:"failures"`
}

// Scheduler runs named jobs on cron schedules.
type Scheduler struct {
	component.Injector

	cfg    Config
	logger component.Logger

	mu       sync.Mutex
	jobs     []*job
	byName   map[string]*job
	cron     *cron.Cron
	entries  map[string]cron.EntryID
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// New creates the Scheduler component with default configuration. It
// depends on the logging component.
func New() *Scheduler {
	s := &Scheduler{
		logger:  component.NopLogger{},
		byName:  make(map[string]*job),
		entries: make(map[string]cron.EntryID),
	}
	_ = config.ProcessDefaults(&s.cfg)

	component.Inject(&s.Injector, logging.ComponentID, func(_ component.Handle, l *logging.Logging) error {
		s.logger = l
		return nil
	})
	return s
}

// ID implements component.Component
func (s *Scheduler) ID() component.ID {
	return ComponentID
}

// Version implements component.Component
func (s *Scheduler) Version() component.Version {
	return component.FrameworkVersion
}

// Config returns the effective configuration.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// AfterConfig reads the [scheduler] section. Without one the defaults apply.
func (s *Scheduler) AfterConfig(cfg config.Provider) error {
	if cfg == nil {
		return nil
	}
	var section Config
	if err := cfg.Section(SectionName, &section); err != nil {
		if errors.Is(err, config.ErrSectionNotFound) {
			return nil
		}
		return fmt.Errorf("scheduler: %w", err)
	}
	s.cfg = section
	return nil
}

// Add registers fn to run on the standard five-field cron spec, or a
// descriptor such as "@hourly" or "@every 5m". Jobs cannot be added once
// the scheduler runs.
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("%w: job %s: %q: %w", ErrInvalidSchedule, name, spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return ErrStarted
	}
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	j := &job{name: name, spec: spec, schedule: schedule, fn: fn}
	s.jobs = append(s.jobs, j)
	s.byName[name] = j
	return nil
}

// Run schedules every enabled job and blocks until ctx is cancelled. Jobs
// get a context of their own, cancelled when the scheduler stops.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.cron != nil {
		s.mu.Unlock()
		return ErrStarted
	}

	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	logger := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(s.cfg.location()),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	for _, j := range s.jobs {
		if slices.Contains(s.cfg.Disabled, j.name) {
			s.logger.Info("Job disabled by configuration", "job", j.name)
			continue
		}
		s.entries[j.name] = c.Schedule(j.schedule, cron.FuncJob(func() {
			s.execute(jobCtx, j)
		}))
	}
	s.cron = c
	s.cancel = cancel
	c.Start()
	s.mu.Unlock()

	s.logger.Info("Scheduler started", "jobs", len(s.entries), "timezone", s.cfg.Timezone)
	<-ctx.Done()
	s.stop(true)
	return nil
}

// RunNow runs the named job once, synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.byName[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(ctx, j)
}

// Entries describes every added job in the order it was added.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.jobs))
	for _, j := range s.jobs {
		e := Entry{
			Name:     j.name,
			Spec:     j.spec,
			Disabled: slices.Contains(s.cfg.Disabled, j.name),
			Runs:     j.runs.Load(),
			Failures: j.failures.Load(),
		}
		if id, ok := s.entries[j.name]; ok && s.cron != nil {
			e.Next = s.cron.Entry(id).Next
		}
		entries = append(entries, e)
	}
	return entries
}

// BeforeShutdown implements component.ShutdownAware. A graceful shutdown
// waits up to the configured timeout for running jobs before cancelling
// them.
func (s *Scheduler) BeforeShutdown(kind component.Shutdown) error {
	s.stop(kind == component.ShutdownGraceful)
	return nil
}

func (s *Scheduler) stop(wait bool) {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.mu.Unlock()
	if c == nil {
		return
	}

	s.stopOnce.Do(func() {
		running := c.Stop()
		if wait {
			select {
			case <-running.Done():
			case <-time.After(s.cfg.ShutdownTimeout):
				s.logger.Warn("Jobs still running after shutdown timeout", "timeout", s.cfg.ShutdownTimeout)
			}
		}
		cancel()
		s.logger.Info("Scheduler stopped")
	})
}

func (s *Scheduler) execute(ctx context.Context, j *job) error {
	start := time.Now()
	s.logger.Debug("Running job", "job", j.name)

	err := j.fn(ctx)
	j.runs.Add(1)
	if err != nil {
		j.failures.Add(1)
		s.logger.Error("Job failed", "job", j.name, "duration", time.Since(start), "error", err)
		return fmt.Errorf("job %s: %w", j.name, err)
	}
	s.logger.Debug("Job finished", "job", j.name, "duration", time.Since(start))
	return nil
}

// cronLogger adapts component.Logger to cron.Logger.
type cronLogger struct {
	logger component.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
