package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	srs "github.com/example/vocabsrs/internal/spaced_repetition"
	"github.com/example/vocabsrs/pkg/models"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type stores struct {
	items   []models.VocabularyItem
	records []models.ProgressRecord
	err     error
}

func (s *stores) ListByLevel(_ context.Context, level models.Level) ([]models.VocabularyItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.VocabularyItem
	for _, it := range s.items {
		if it.Level == level {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stores) ListByUserAndItems(_ context.Context, userID int64, _ []int64) ([]models.ProgressRecord, error) {
	var out []models.ProgressRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func progress(itemID int64, strength, ease float64, last, next time.Time) models.ProgressRecord {
	return models.ProgressRecord{
		UserID:         1,
		ItemID:         itemID,
		Repetitions:    3,
		EaseFactor:     ease,
		MemoryStrength: strength,
		LastReviewedAt: last,
		NextReviewAt:   next,
		Status:         models.StatusReviewing,
		TotalReviews:   4,
	}
}

func TestForgettingCurve(t *testing.T) {
	s := &stores{}
	for id := int64(1); id <= 6; id++ {
		s.items = append(s.items, models.VocabularyItem{ID: id, Text: "w", Language: "en", Level: models.LevelIntermediate})
	}
	s.items = append(s.items, models.VocabularyItem{ID: 99, Text: "other", Language: "en", Level: models.LevelElementary})
	s.records = []models.ProgressRecord{
		progress(2, 90, 2.5, t0, t0.AddDate(0, 0, 10)),
		progress(3, 50, 2.0, t0.Add(-30*time.Minute), t0.AddDate(0, 0, -5)),
		progress(4, 50, 2.0, t0, t0.AddDate(0, 0, 2)),
		progress(5, 30, 1.3, t0.AddDate(0, 0, -40), t0.AddDate(0, 0, -38)),
		progress(6, 100, 2.5, t0, t0.AddDate(0, 0, 30)),
	}

	b := NewBuilder(s, s)
	b.now = func() time.Time { return t0 }

	r, err := b.ForgettingCurve(context.Background(), 1, models.LevelIntermediate)
	require.NoError(t, err)

	assert.Equal(t, "INTERMEDIATE", r.Level)
	assert.Equal(t, map[Category]int{
		CategoryMastered:   2,
		CategoryForgetting: 1,
		CategoryLearning:   1,
		CategoryNew:        2,
	}, r.Counts)

	var counts []int
	for _, bucket := range r.Distribution {
		counts = append(counts, bucket.Count)
	}
	assert.Equal(t, []int{2, 0, 2, 0, 2}, counts)
	assert.Equal(t, Bucket{From: 80, To: 100, Count: 2}, r.Distribution[4])

	var order []int64
	for _, st := range r.Items {
		order = append(order, st.Item.ID)
	}
	assert.Equal(t, []int64{1, 5, 3, 4, 2, 6}, order)

	unseen := r.Items[0]
	assert.False(t, unseen.Seen)
	assert.Nil(t, unseen.NextReviewAt)

	decayed := r.Items[1]
	assert.Equal(t, CategoryNew, decayed.Category)
	assert.Equal(t, 30.0, decayed.StoredStrength)
	assert.Less(t, decayed.MemoryStrength, 20.0)

	forgetting := r.Items[2]
	assert.Equal(t, CategoryForgetting, forgetting.Category)
	assert.InDelta(t, 5.0, forgetting.OverdueDays, 1e-9)
	assert.Equal(t, UrgencyUrgent, forgetting.Urgency)

	assert.Empty(t, unseen.Urgency)
	assert.Equal(t, UrgencyMedium, r.Items[3].Urgency)
	assert.Equal(t, UrgencyLow, r.Items[5].Urgency)
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		next time.Time
		want Urgency
	}{
		{t0.AddDate(0, 0, -2), UrgencyUrgent},
		{t0.Add(-25 * time.Hour), UrgencyUrgent},
		{t0.Add(-24 * time.Hour), UrgencyHigh},
		{t0.Add(-time.Minute), UrgencyHigh},
		{t0, UrgencyMedium},
		{t0.AddDate(0, 0, 2), UrgencyMedium},
		{t0.AddDate(0, 0, 3), UrgencyLow},
		{t0.AddDate(0, 0, 20), UrgencyLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, urgency(tt.next, t0), "next %v", tt.next)
	}
}

func TestForgettingCurveNormalizesCorruptRecords(t *testing.T) {
	rec := progress(1, 250, 9, t0, t0.AddDate(0, 0, 1))
	rec.TotalReviews = 2
	rec.IncorrectReviews = 7
	s := &stores{
		items:   []models.VocabularyItem{{ID: 1, Text: "w", Language: "en", Level: models.LevelElementary}},
		records: []models.ProgressRecord{rec},
	}
	b := NewBuilder(s, s)
	b.now = func() time.Time { return t0 }

	r, err := b.ForgettingCurve(context.Background(), 1, models.LevelElementary)
	require.NoError(t, err)
	require.Len(t, r.Items, 1)
	assert.Equal(t, 100.0, r.Items[0].StoredStrength)
	assert.Equal(t, 1.0, r.Items[0].ErrorRate)
	assert.Equal(t, CategoryMastered, r.Items[0].Category)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		strength, overdue float64
		want              Category
	}{
		{100, 10, CategoryMastered},
		{80, 0, CategoryMastered},
		{79, 3, CategoryForgetting},
		{79, 2.9, CategoryLearning},
		{20, 0, CategoryLearning},
		{19, 9, CategoryNew},
		{0, 0, CategoryNew},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.strength, tt.overdue), "%+v", tt)
	}
}

func TestForgettingCurveErrors(t *testing.T) {
	b := NewBuilder(&stores{}, &stores{})
	_, err := b.ForgettingCurve(context.Background(), 1, models.Level(0))
	assert.ErrorIs(t, err, srs.ErrInvalidParameter)

	boom := errors.New("timeout")
	b = NewBuilder(&stores{err: boom}, &stores{})
	_, err = b.ForgettingCurve(context.Background(), 1, models.LevelElementary)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, srs.ErrStoreUnavailable)
}

func TestForgettingCurveEmptyCatalog(t *testing.T) {
	r, err := NewBuilder(&stores{}, &stores{}).ForgettingCurve(context.Background(), 1, models.LevelElementary)
	require.NoError(t, err)
	assert.Empty(t, r.Items)
	assert.Len(t, r.Distribution, 5)
	assert.Equal(t, 0, r.Counts[CategoryNew])
}
