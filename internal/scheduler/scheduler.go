package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/wanokuni/internal/engine"
)

// Default notification window (UTC hours).
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier delivers a due-review reminder to the learner.
type Notifier interface {
	SendReminder(dueReviews, pendingLessons int) error
}

// Scheduler periodically checks the engine for due reviews and pings
// the notifier inside the configured notification window.
type Scheduler struct {
	scheduler *gocron.Scheduler
	engine    *engine.Engine
	notifier  Notifier
}

// New creates a new scheduler instance
func New(eng *engine.Engine, notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		engine:    eng,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for due reviews
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminder)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminder sends a reminder when reviews are waiting and the
// current hour falls inside the notification window.
func (s *Scheduler) checkAndSendReminder() {
	currentHour := time.Now().UTC().Hour()

	startHour := hourFromEnv("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := hourFromEnv("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("scheduler: hour %d outside notification window (%d-%d), skipping reminder",
			currentHour, startHour, endHour)
		return
	}

	due := s.engine.ReviewCount()
	if due == 0 {
		return
	}

	if err := s.notifier.SendReminder(due, s.engine.LessonCount()); err != nil {
		log.Printf("scheduler: sending reminder failed: %v", err)
	}
}

// RunManualCheck forces a reminder check, ignoring the window.
func (s *Scheduler) RunManualCheck() error {
	due := s.engine.ReviewCount()
	if due == 0 {
		return nil
	}
	return s.notifier.SendReminder(due, s.engine.LessonCount())
}

func hourFromEnv(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
