// Package cron runs named housekeeping jobs on fixed intervals.
package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status is the outcome of a job's most recent run.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
)

// Job is a task run every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

type jobState struct {
	Job
	mu      sync.Mutex
	status  Status
	message string
	lastRun *time.Time
	nextRun time.Time
}

// Report is the public view of a job.
type Report struct {
	Name    string     `json:"name"`
	Status  Status     `json:"status"`
	Message string     `json:"message,omitempty"`
	LastRun *time.Time `json:"last_run,omitempty"`
	NextRun time.Time  `json:"next_run"`
}

// Scheduler owns a fixed set of jobs. Register everything before Start.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*jobState
	log  *zap.Logger
}

func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{jobs: make(map[string]*jobState), log: log}
}

func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = &jobState{Job: job, status: StatusIdle, nextRun: time.Now().Add(job.Interval)}
}

// Start runs every job on its own ticker until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, js := range s.jobs {
		go s.loop(ctx, js)
	}
}

func (s *Scheduler) loop(ctx context.Context, js *jobState) {
	t := time.NewTicker(js.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.execute(ctx, js)
		}
	}
}

// execute skips a job that is still running from a previous tick.
func (s *Scheduler) execute(ctx context.Context, js *jobState) {
	js.mu.Lock()
	if js.status == StatusRunning {
		js.mu.Unlock()
		return
	}
	js.status = StatusRunning
	js.mu.Unlock()

	started := time.Now()
	err := js.Fn(ctx)

	js.mu.Lock()
	defer js.mu.Unlock()
	js.lastRun = &started
	js.nextRun = time.Now().Add(js.Interval)
	if err != nil {
		js.status, js.message = StatusFailed, err.Error()
		s.log.Warn("cron job failed", zap.String("job", js.Name), zap.Error(err))
		return
	}
	js.status, js.message = StatusOK, ""
	s.log.Debug("cron job done", zap.String("job", js.Name), zap.Duration("took", time.Since(started)))
}

// Run executes a job now and waits for it.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("cron: job %q not found", name)
	}
	s.execute(ctx, js)
	return nil
}

// List reports every job, sorted by name.
func (s *Scheduler) List() []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Report, 0, len(s.jobs))
	for _, js := range s.jobs {
		js.mu.Lock()
		out = append(out, Report{Name: js.Name, Status: js.status, Message: js.message, LastRun: js.lastRun, NextRun: js.nextRun})
		js.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
