package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/example/vocabsrs/internal/metrics"
	"github.com/example/vocabsrs/pkg/models"
)

// Notifier delivers a reminder to a user
type Notifier interface {
	SendReminder(ctx context.Context, user models.User, count int) error
}

// UserSource lists users who asked for a reminder at a given hour
type UserSource interface {
	GetUsersForNotification(ctx context.Context, hour int) ([]models.User, error)
}

// BatchSource reports a user's standing on a level; count 0 returns statistics only
type BatchSource interface {
	GetWordsToReview(ctx context.Context, userID int64, level models.Level, count int) (*models.StudyBatch, error)
}

// Window is the range of hours, inclusive, in which reminders may be sent
type Window struct {
	StartHour int
	EndHour   int
}

// Contains reports whether hour lies in the window
func (w Window) Contains(hour int) bool {
	return hour >= w.StartHour && hour <= w.EndHour
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	cron     *gocron.Scheduler
	users    UserSource
	batches  BatchSource
	notifier Notifier
	window   Window
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates a new scheduler instance
func New(users UserSource, batches BatchSource, notifier Notifier, window Window, m *metrics.Metrics, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     gocron.NewScheduler(time.UTC),
		users:    users,
		batches:  batches,
		notifier: notifier,
		window:   window,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Start schedules the hourly reminder sweep and runs it in the background until Stop
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.Every(1).Hour().Do(func() {
		if _, err := s.CheckAndSendReminders(ctx); err != nil {
			s.logger.Error().Err(err).Msg("reminder sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	s.cron.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// CheckAndSendReminders notifies every user whose notification hour is now and who has words due.
// It returns the number of reminders sent.
func (s *Scheduler) CheckAndSendReminders(ctx context.Context) (int, error) {
	currentHour := s.now().Hour()
	if !s.window.Contains(currentHour) {
		s.logger.Debug().
			Int("hour", currentHour).
			Int("start", s.window.StartHour).
			Int("end", s.window.EndHour).
			Msg("outside notification hours, skipping reminders")
		return 0, nil
	}

	users, err := s.users.GetUsersForNotification(ctx, currentHour)
	if err != nil {
		return 0, fmt.Errorf("failed to get users for notification: %w", err)
	}

	sent := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		due, err := s.DueCount(ctx, user.ID)
		if err != nil {
			s.metrics.RemindersSent.WithLabelValues("failed").Inc()
			s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to count due words")
			continue
		}
		if due == 0 {
			s.metrics.RemindersSent.WithLabelValues("nothing_due").Inc()
			continue
		}

		// Don't announce more than the user's daily preference
		count := due
		if user.WordsPerDay > 0 && count > user.WordsPerDay {
			count = user.WordsPerDay
		}

		if err := s.notifier.SendReminder(ctx, user, count); err != nil {
			s.metrics.RemindersSent.WithLabelValues("failed").Inc()
			s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to send reminder")
			continue
		}
		s.metrics.RemindersSent.WithLabelValues("sent").Inc()
		sent++
	}
	return sent, nil
}

// DueCount sums the words due for review over all levels
func (s *Scheduler) DueCount(ctx context.Context, userID int64) (int, error) {
	total := 0
	for _, level := range models.Levels() {
		batch, err := s.batches.GetWordsToReview(ctx, userID, level, 0)
		if err != nil {
			return 0, err
		}
		total += batch.Statistics.DueForReview
	}
	return total, nil
}
