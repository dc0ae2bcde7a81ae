package spaced_repetition

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/vocabsrs/pkg/models"
)

// Scheduler assembles study batches from the catalog and a learner's progress.
// It holds no per-user state and is safe for concurrent use.
type Scheduler struct {
	vocabulary VocabularyStore
	progress   ProgressStore
	ranker     PriorityRanker
	logger     zerolog.Logger
	now        func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithRand sets the random source used to sample new words
func WithRand(rng *rand.Rand) Option {
	return func(s *Scheduler) { s.rng = rng }
}

// WithSeed makes new-word sampling deterministic
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the logger data-integrity warnings are written to
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithRealtimeDecay chooses whether due words are ranked on decayed (true, the default)
// or persisted strength.
func WithRealtimeDecay(enabled bool) Option {
	return func(s *Scheduler) { s.ranker.UseRealtimeDecay = enabled }
}

// NewScheduler creates a Scheduler reading from the given stores
func NewScheduler(vocabulary VocabularyStore, progress ProgressStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		vocabulary: vocabulary,
		progress:   progress,
		ranker:     PriorityRanker{UseRealtimeDecay: true},
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// GetWordsToReview builds a batch of at most count words for userID on level: up to 5 unseen words
// sampled at random and up to 10 due words by descending priority. When one pool runs short the
// due pool fills the remaining room. count == 0 returns only the statistics.
func (s *Scheduler) GetWordsToReview(ctx context.Context, userID int64, level models.Level, count int) (*models.StudyBatch, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d is negative", ErrInvalidParameter, count)
	}
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, level)
	}
	now := s.now()

	catalog, err := s.vocabulary.ListByLevel(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("%w: list catalog for %v: %w", ErrStoreUnavailable, level, err)
	}

	batch := &models.StudyBatch{
		ID:          uuid.NewString(),
		UserID:      userID,
		Level:       level,
		Words:       []models.WordToReview{},
		NewWords:    []models.WordToReview{},
		ReviewWords: []models.WordToReview{},
	}
	batch.Statistics.TotalWords = len(catalog)
	if len(catalog) == 0 {
		return batch, nil
	}

	itemIDs := make([]int64, len(catalog))
	items := make(map[int64]models.VocabularyItem, len(catalog))
	for i, item := range catalog {
		itemIDs[i] = item.ID
		items[item.ID] = item
	}

	records, err := s.progress.ListByUserAndItems(ctx, userID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: list progress for user %d: %w", ErrStoreUnavailable, userID, err)
	}

	seen := make(map[int64]models.ProgressRecord, len(records))
	var due []models.ProgressRecord
	for _, rec := range records {
		if _, ok := items[rec.ItemID]; !ok {
			batch.Warnings = append(batch.Warnings, s.integrityWarning(userID, level, rec.ItemID,
				fmt.Sprintf("item %d not in %v catalog", rec.ItemID, level)))
			continue
		}
		if prev, dup := seen[rec.ItemID]; dup && !rec.LastReviewedAt.After(prev.LastReviewedAt) {
			continue
		}
		seen[rec.ItemID] = rec
	}

	unseen := make([]models.VocabularyItem, 0, len(catalog))
	for _, item := range catalog {
		rec, ok := seen[item.ID]
		if !ok {
			unseen = append(unseen, item)
			continue
		}
		if err := rec.Validate(); err != nil {
			batch.Warnings = append(batch.Warnings, s.integrityWarning(userID, level, rec.ItemID, err.Error()))
			rec = rec.Normalized()
		}
		if rec.Status == models.StatusMastered {
			batch.Statistics.MasteredWords++
		}
		if rec.IsDue(now) {
			due = append(due, rec)
		}
	}
	batch.Statistics.LearnedWords = len(seen)
	batch.Statistics.DueForReview = len(due)

	newTake, reviewTake := quotas(len(unseen), len(due), count)

	for _, item := range s.sample(unseen, newTake) {
		batch.NewWords = append(batch.NewWords, models.WordToReview{
			Item:  item,
			IsNew: true,
		})
	}

	if reviewTake > 0 {
		ranked := s.ranker.Rank(due, now)
		for _, r := range ranked[:reviewTake] {
			rec := r.Record
			strength := r.Strength
			if !s.ranker.UseRealtimeDecay {
				strength = s.ranker.Decay.DecayedStrength(rec.MemoryStrength, rec.LastReviewedAt, rec.EaseFactor, now)
			}
			batch.ReviewWords = append(batch.ReviewWords, models.WordToReview{
				Item:           items[rec.ItemID],
				NeedsReview:    true,
				MemoryStrength: strength,
				Priority:       r.Score,
				Progress:       &rec,
			})
		}
	}

	batch.Words = append(batch.Words, batch.ReviewWords...)
	batch.Words = append(batch.Words, batch.NewWords...)
	return batch, nil
}

// quotas splits count between the unseen and due pools. New words never exceed MaxNewWords;
// due words fill up to MaxReviewWords, and beyond that whatever room the new pool leaves.
// When count is smaller than both quotas, due words take precedence.
func quotas(unseen, due, count int) (newTake, reviewTake int) {
	newTake = min(MaxNewWords, unseen)
	reviewTake = min(MaxReviewWords, due)
	if newTake+reviewTake < count {
		reviewTake = min(due, count-newTake)
	}
	if newTake+reviewTake > count {
		reviewTake = min(reviewTake, count)
		newTake = count - reviewTake
	}
	return newTake, reviewTake
}

// sample picks n items uniformly at random without replacement.
func (s *Scheduler) sample(items []models.VocabularyItem, n int) []models.VocabularyItem {
	if n <= 0 {
		return nil
	}
	shuffled := make([]models.VocabularyItem, len(items))
	copy(shuffled, items)

	s.mu.Lock()
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()

	return shuffled[:n]
}

// integrityWarning logs a progress record that is missing from the catalog or out of range
func (s *Scheduler) integrityWarning(userID int64, level models.Level, itemID int64, reason string) models.IntegrityWarning {
	s.logger.Warn().
		Int64("user_id", userID).
		Int64("item_id", itemID).
		Str("level", level.String()).
		Str("reason", reason).
		Msg("inconsistent progress record")
	return models.IntegrityWarning{
		UserID: userID,
		ItemID: itemID,
		Reason: reason,
	}
}
