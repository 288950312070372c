// Package scheduler runs the periodic reminder refresh.
package scheduler

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/logger"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/reminder"
)

// ReminderSource produces the pending reminders for the current day.
type ReminderSource interface {
	List() []model.Reminder
}

// ReminderJob regenerates reminders and keeps the latest result.
type ReminderJob struct {
	source ReminderSource

	mu        sync.RWMutex
	latest    []model.Reminder
	refreshed time.Time
	urgent    int
}

// NewReminderJob returns a job reading from source.
func NewReminderJob(source ReminderSource) *ReminderJob {
	return &ReminderJob{source: source, urgent: -1}
}

// Run regenerates the reminders. The urgent count is logged whenever it
// changes.
func (j *ReminderJob) Run() {
	rs := j.source.List()
	urgent := reminder.CountUrgent(rs)

	j.mu.Lock()
	changed := urgent != j.urgent
	j.latest = rs
	j.refreshed = time.Now()
	j.urgent = urgent
	j.mu.Unlock()

	entry := logger.Log.WithFields(logrus.Fields{"pending": len(rs), "urgent": urgent})
	if changed && urgent > 0 {
		entry.Warn("urgent reminders pending")
		return
	}
	entry.Debug("reminders refreshed")
}

// Latest returns the reminders from the last run and when it happened.
func (j *ReminderJob) Latest() ([]model.Reminder, time.Time) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]model.Reminder(nil), j.latest...), j.refreshed
}

// Scheduler wraps a gocron scheduler running ReminderJob.
type Scheduler struct {
	s gocron.Scheduler
}

// Start schedules job every interval, running it once immediately.
func Start(interval time.Duration, job *ReminderJob) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	j, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(job.Run),
		gocron.WithName("reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}
	s.Start()
	logger.Log.WithFields(logrus.Fields{"job_id": j.ID().String(), "interval": interval}).Info("reminder scheduler started")
	return &Scheduler{s: s}, nil
}

// Shutdown stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Shutdown() error {
	return s.s.Shutdown()
}
