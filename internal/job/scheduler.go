// Package job runs the recurring polling and rotation schedules.
package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/geosearch/internal/config"
	"github.com/jonesrussell/geosearch/internal/logger"
)

const (
	// taskPoll polls every location whose interval has elapsed.
	taskPoll = "poll"
	// taskSeal rotates archives from previous days into sealed documents.
	taskSeal = "seal"
)

// Pipeline is the subset of the ingestion service the scheduler drives.
type Pipeline interface {
	PollDue(ctx context.Context) error
	SealBefore(ctx context.Context, day time.Time) error
}

// Scheduler runs the polling and rotation tasks on cron schedules.
type Scheduler struct {
	logger     logger.Interface
	pipeline   Pipeline
	cron       *cron.Cron
	cronParser cron.Parser
	config     *config.SchedulerConfig
	entries    map[string]cron.EntryID
	entriesMu  sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewScheduler creates a scheduler for the given pipeline.
func NewScheduler(cfg *config.SchedulerConfig, pipeline Pipeline, log logger.Interface) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	// Standard 5-field cron format (minute hour day month weekday).
	cronParser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	return &Scheduler{
		logger:     log,
		pipeline:   pipeline,
		cron:       c,
		cronParser: cronParser,
		config:     cfg,
		entries:    make(map[string]cron.EntryID),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start registers both tasks and starts the cron loop.
func (s *Scheduler) Start() error {
	if err := s.schedule(taskPoll, s.config.PollSpec, s.runPoll); err != nil {
		return err
	}
	if err := s.schedule(taskSeal, s.config.SealSpec, s.runSeal); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		"poll_spec", s.config.PollSpec,
		"seal_spec", s.config.SealSpec)
	return nil
}

// Stop stops the cron loop and waits for any running task to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()

	cronCtx := s.cron.Stop()
	<-cronCtx.Done()

	s.logger.Info("Scheduler stopped")
}

// schedule validates a cron spec and registers its task function.
func (s *Scheduler) schedule(task, spec string, run func()) error {
	schedule, err := s.cronParser.Parse(spec)
	if err != nil {
		return fmt.Errorf("parse %s schedule %q: %w", task, spec, err)
	}

	entryID, err := s.cron.AddFunc(spec, run)
	if err != nil {
		return fmt.Errorf("add %s schedule: %w", task, err)
	}

	s.entriesMu.Lock()
	s.entries[task] = entryID
	s.entriesMu.Unlock()

	s.logger.Info("Task scheduled",
		"task", task,
		"schedule", spec,
		"next_run", schedule.Next(time.Now()).Format("2006-01-02 15:04:05"))
	return nil
}

// runPoll polls every due location.
func (s *Scheduler) runPoll() {
	s.logger.Info("Cron triggered", "task", taskPoll)
	if err := s.pipeline.PollDue(s.ctx); err != nil {
		s.logger.Error("Poll run failed", "error", err.Error())
	}
}

// runSeal seals every archive from days before today.
func (s *Scheduler) runSeal() {
	s.logger.Info("Cron triggered", "task", taskSeal)
	if err := s.pipeline.SealBefore(s.ctx, time.Now().UTC()); err != nil {
		s.logger.Error("Rotation run failed", "error", err.Error())
	}
}
