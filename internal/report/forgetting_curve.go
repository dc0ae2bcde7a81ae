package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	srs "github.com/example/vocabsrs/internal/spaced_repetition"
	"github.com/example/vocabsrs/pkg/models"
)

// Category groups catalog items by real-time memory strength
type Category string

const (
	CategoryMastered   Category = "mastered"
	CategoryForgetting Category = "forgetting"
	CategoryLearning   Category = "learning"
	CategoryNew        Category = "new"
)

// Urgency bands a seen item by when its review falls due
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent" // more than a day overdue
	UrgencyHigh   Urgency = "high"   // overdue by up to a day
	UrgencyMedium Urgency = "medium" // due within 3 days
	UrgencyLow    Urgency = "low"
)

// Classification thresholds
const (
	MasteredStrength   = srs.MasteryStrength
	LearningStrength   = srs.ForgettingThreshold
	ForgettingOverdue  = 3.0 // days past the scheduled review
	distributionBucket = 20.0
)

// ItemState is one catalog item in the report
type ItemState struct {
	Item           models.VocabularyItem `json:"item" yaml:"item"`
	Category       Category              `json:"category" yaml:"category"`
	Seen           bool                  `json:"seen" yaml:"seen"`
	MemoryStrength float64               `json:"memory_strength" yaml:"memory_strength"`
	StoredStrength float64               `json:"stored_strength" yaml:"stored_strength"`
	OverdueDays    float64               `json:"overdue_days" yaml:"overdue_days"`
	NextReviewAt   *time.Time            `json:"next_review_at,omitempty" yaml:"next_review_at,omitempty"`
	Urgency        Urgency               `json:"urgency,omitempty" yaml:"urgency,omitempty"`
	ErrorRate      float64               `json:"error_rate" yaml:"error_rate"`
}

// Bucket counts items whose strength lies in [From, To); the last bucket includes 100
type Bucket struct {
	From  int `json:"from" yaml:"from"`
	To    int `json:"to" yaml:"to"`
	Count int `json:"count" yaml:"count"`
}

// ForgettingCurve is a snapshot of a user's memory on one level
type ForgettingCurve struct {
	UserID       int64            `json:"user_id" yaml:"user_id"`
	Level        string           `json:"level" yaml:"level"`
	GeneratedAt  time.Time        `json:"generated_at" yaml:"generated_at"`
	Counts       map[Category]int `json:"counts" yaml:"counts"`
	Distribution []Bucket         `json:"distribution" yaml:"distribution"`
	Items        []ItemState      `json:"items" yaml:"items"`
}

// Builder assembles reports from the catalog and progress stores
type Builder struct {
	vocabulary srs.VocabularyStore
	progress   srs.ProgressStore
	decay      srs.DecayModel
	now        func() time.Time
}

// NewBuilder creates a report builder
func NewBuilder(vocabulary srs.VocabularyStore, progress srs.ProgressStore) *Builder {
	return &Builder{vocabulary: vocabulary, progress: progress, now: time.Now}
}

// ForgettingCurve classifies every item of level for userID by its decayed strength.
// Items are ordered weakest first.
func (b *Builder) ForgettingCurve(ctx context.Context, userID int64, level models.Level) (*ForgettingCurve, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %v", srs.ErrInvalidParameter, level)
	}
	now := b.now()

	catalog, err := b.vocabulary.ListByLevel(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("%w: list catalog for %v: %w", srs.ErrStoreUnavailable, level, err)
	}
	ids := make([]int64, len(catalog))
	for i, item := range catalog {
		ids[i] = item.ID
	}

	var records []models.ProgressRecord
	if len(ids) > 0 {
		records, err = b.progress.ListByUserAndItems(ctx, userID, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: list progress for user %d: %w", srs.ErrStoreUnavailable, userID, err)
		}
	}
	latest := make(map[int64]models.ProgressRecord, len(records))
	for _, rec := range records {
		if prev, ok := latest[rec.ItemID]; ok && !rec.LastReviewedAt.After(prev.LastReviewedAt) {
			continue
		}
		latest[rec.ItemID] = rec
	}

	report := &ForgettingCurve{
		UserID:       userID,
		Level:        level.String(),
		GeneratedAt:  now,
		Counts:       map[Category]int{CategoryMastered: 0, CategoryForgetting: 0, CategoryLearning: 0, CategoryNew: 0},
		Distribution: newDistribution(),
		Items:        make([]ItemState, 0, len(catalog)),
	}

	for _, item := range catalog {
		state := ItemState{Item: item, Category: CategoryNew}
		if rec, ok := latest[item.ID]; ok {
			rec = rec.Normalized()
			next := rec.NextReviewAt
			state.Seen = true
			state.StoredStrength = rec.MemoryStrength
			state.MemoryStrength = b.decay.DecayedStrength(rec.MemoryStrength, rec.LastReviewedAt, rec.EaseFactor, now)
			state.OverdueDays = overdue(rec.NextReviewAt, now)
			state.NextReviewAt = &next
			state.Urgency = urgency(rec.NextReviewAt, now)
			state.ErrorRate = rec.ErrorRate()
			state.Category = classify(state.MemoryStrength, state.OverdueDays)
		}
		report.Counts[state.Category]++
		report.Distribution[bucketIndex(state.MemoryStrength)].Count++
		report.Items = append(report.Items, state)
	}

	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].MemoryStrength < report.Items[j].MemoryStrength
	})
	return report, nil
}

func classify(strength, overdueDays float64) Category {
	switch {
	case strength >= MasteredStrength:
		return CategoryMastered
	case strength < LearningStrength:
		return CategoryNew
	case overdueDays >= ForgettingOverdue:
		return CategoryForgetting
	default:
		return CategoryLearning
	}
}

func urgency(nextReviewAt, now time.Time) Urgency {
	diff := now.Sub(nextReviewAt)
	switch {
	case diff > 24*time.Hour:
		return UrgencyUrgent
	case diff > 0:
		return UrgencyHigh
	case diff > -72*time.Hour:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

func overdue(nextReviewAt, now time.Time) float64 {
	if nextReviewAt.IsZero() || !now.After(nextReviewAt) {
		return 0
	}
	return now.Sub(nextReviewAt).Hours() / 24
}

func newDistribution() []Bucket {
	buckets := make([]Bucket, 0, 5)
	for from := 0; from < 100; from += int(distributionBucket) {
		buckets = append(buckets, Bucket{From: from, To: from + int(distributionBucket)})
	}
	return buckets
}

func bucketIndex(strength float64) int {
	i := int(strength / distributionBucket)
	if i < 0 {
		return 0
	}
	if i > 4 {
		return 4
	}
	return i
}
