// Package scheduler drives periodic pipeline runs. The Scheduler is an
// explicit object owning its cron instance; there is no package-level timer
// state, and a process constructs exactly one.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Interval bounds in minutes
const (
	MinIntervalMinutes = 1
	MaxIntervalMinutes = 60
)

// Scheduler wraps robfig/cron and manages the run loop lifecycle:
// Stopped -> Start -> Running -> Stop -> Stopped. While Running exactly one
// timer-driven run fires per tick; manual runs go through the same job
// function out of band and are not serialized against the timer; the
// store's identity constraint makes that overlap safe.
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	entry    cron.EntryID
	interval int
	running  bool
	job      func()
}

// New creates a stopped Scheduler that will invoke job on every tick.
// The job must contain its own failure handling; nothing it does may kill
// the timer.
func New(job func()) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		job:  job,
	}
}

// Start registers the job at the given interval and starts the timer.
// Starting a running scheduler is an error; stop it first.
func (s *Scheduler) Start(intervalMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if err := validateInterval(intervalMinutes); err != nil {
		return err
	}

	entry, err := s.cron.AddFunc(spec(intervalMinutes), s.job)
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.entry = entry
	s.interval = intervalMinutes
	s.running = true
	s.cron.Start()
	log.Printf("[scheduler] Started, every %d minute(s)", intervalMinutes)
	return nil
}

// Stop halts the timer. A run already in flight is not aborted; Stop only
// prevents future runs from starting.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cron.Remove(s.entry)
	s.cron.Stop()
	s.running = false
	log.Println("[scheduler] Stopped")
}

// SetInterval reschedules a running scheduler: the pending wait is discarded
// and the next run fires a full new interval from now. On a stopped
// scheduler it only validates and records the interval for the next Start.
func (s *Scheduler) SetInterval(intervalMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateInterval(intervalMinutes); err != nil {
		return err
	}
	if s.interval == intervalMinutes {
		return nil
	}

	if s.running {
		s.cron.Remove(s.entry)
		entry, err := s.cron.AddFunc(spec(intervalMinutes), s.job)
		if err != nil {
			return fmt.Errorf("cron.AddFunc: %w", err)
		}
		s.entry = entry
		log.Printf("[scheduler] Rescheduled, every %d minute(s)", intervalMinutes)
	}

	s.interval = intervalMinutes
	return nil
}

// IsRunning reports whether the timer is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Interval returns the currently configured interval in minutes
func (s *Scheduler) Interval() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func spec(minutes int) string {
	return fmt.Sprintf("@every %dm", minutes)
}

func validateInterval(minutes int) error {
	if minutes < MinIntervalMinutes || minutes > MaxIntervalMinutes {
		return fmt.Errorf("interval must be between %d and %d minutes, got %d",
			MinIntervalMinutes, MaxIntervalMinutes, minutes)
	}
	return nil
}
