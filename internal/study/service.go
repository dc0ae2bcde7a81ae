package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/metrics"
	srs "github.com/example/vocabsrs/internal/spaced_repetition"
	"github.com/example/vocabsrs/pkg/models"
)

// Attempts made by SubmitAnswer when the record changes underneath it
const maxWriteAttempts = 3

// Catalog looks up single vocabulary items
type Catalog interface {
	GetByID(ctx context.Context, id int64) (*models.VocabularyItem, error)
}

// ProgressRepository reads and writes progress records
type ProgressRepository interface {
	srs.ProgressWriter
	GetByUserAndItem(ctx context.Context, userID, itemID int64) (*models.ProgressRecord, error)
}

// Answer is one response of a learner to a word
type Answer struct {
	UserID       int64
	ItemID       int64
	Correct      bool
	ResponseTime time.Duration
}

// AnswerResult is the outcome of SubmitAnswer
type AnswerResult struct {
	Item          models.VocabularyItem `json:"item" yaml:"item"`
	Previous      models.ProgressRecord `json:"previous" yaml:"previous"`
	Record        models.ProgressRecord `json:"record" yaml:"record"`
	Quality       srs.QualityResponse   `json:"quality" yaml:"quality"`
	NewlyMastered bool                  `json:"newly_mastered" yaml:"newly_mastered"`
}

// Service hands out study batches and records answers
type Service struct {
	scheduler *srs.Scheduler
	sm2       *srs.SM2
	catalog   Catalog
	progress  ProgressRepository
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates a study service
func NewService(scheduler *srs.Scheduler, catalog Catalog, progress ProgressRepository, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		scheduler: scheduler,
		sm2:       srs.NewSM2(),
		catalog:   catalog,
		progress:  progress,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// NextBatch returns the next words the user should study on level
func (s *Service) NextBatch(ctx context.Context, userID int64, level models.Level, count int) (*models.StudyBatch, error) {
	batch, err := s.scheduler.GetWordsToReview(ctx, userID, level, count)
	if err != nil {
		return nil, err
	}

	s.metrics.Batches.WithLabelValues(level.String()).Inc()
	s.metrics.BatchWords.WithLabelValues("new").Add(float64(len(batch.NewWords)))
	s.metrics.BatchWords.WithLabelValues("review").Add(float64(len(batch.ReviewWords)))
	s.metrics.IntegrityWarnings.Add(float64(len(batch.Warnings)))
	for _, w := range batch.ReviewWords {
		s.metrics.DecayedStrength.Observe(w.MemoryStrength)
	}

	s.logger.Info().
		Str("batch_id", batch.ID).
		Int64("user_id", userID).
		Str("level", level.String()).
		Int("new", len(batch.NewWords)).
		Int("review", len(batch.ReviewWords)).
		Int("due", batch.Statistics.DueForReview).
		Msg("study batch built")
	return batch, nil
}

// SubmitAnswer applies an answer to the user's progress on the item and stores the result
func (s *Service) SubmitAnswer(ctx context.Context, answer Answer) (*AnswerResult, error) {
	item, err := s.catalog.GetByID(ctx, answer.ItemID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		now := s.now()

		prev, err := s.load(ctx, answer.UserID, answer.ItemID, now)
		if err != nil {
			return nil, err
		}

		next := s.sm2.UpdateWithSM2(prev, answer.Correct, now)
		saved, err := s.progress.Upsert(ctx, next)
		if errors.Is(err, database.ErrVersionConflict) {
			lastErr = err
			s.metrics.UpdateConflicts.Inc()
			s.logger.Debug().
				Int64("user_id", answer.UserID).
				Int64("item_id", answer.ItemID).
				Int("attempt", attempt).
				Msg("progress changed concurrently, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: save progress: %w", srs.ErrStoreUnavailable, err)
		}

		result := &AnswerResult{
			Item:          *item,
			Previous:      prev,
			Record:        saved,
			Quality:       s.sm2.CalculateQuality(answer.Correct, answer.ResponseTime),
			NewlyMastered: prev.Status != models.StatusMastered && saved.Status == models.StatusMastered,
		}
		s.record(answer, result)
		return result, nil
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", maxWriteAttempts, lastErr)
}

func (s *Service) load(ctx context.Context, userID, itemID int64, now time.Time) (models.ProgressRecord, error) {
	rec, err := s.progress.GetByUserAndItem(ctx, userID, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return models.NewProgressRecord(userID, itemID, now), nil
	}
	if err != nil {
		return models.ProgressRecord{}, fmt.Errorf("%w: load progress: %w", srs.ErrStoreUnavailable, err)
	}
	return *rec, nil
}

func (s *Service) record(answer Answer, result *AnswerResult) {
	outcome := "incorrect"
	if answer.Correct {
		outcome = "correct"
	}
	s.metrics.Answers.WithLabelValues(outcome).Inc()
	if result.NewlyMastered {
		s.metrics.Mastered.Inc()
	}

	s.logger.Info().
		Int64("user_id", answer.UserID).
		Int64("item_id", answer.ItemID).
		Bool("correct", answer.Correct).
		Int("quality", int(result.Quality)).
		Float64("strength", result.Record.MemoryStrength).
		Float64("interval_days", result.Record.IntervalDays).
		Str("status", result.Record.Status.String()).
		Msg("answer recorded")
}
