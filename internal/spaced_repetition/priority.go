package spaced_repetition

import (
	"sort"
	"time"

	"github.com/example/vocabsrs/pkg/models"
)

// PriorityRanker orders due records by urgency:
//
//	score = overdueDays*10 + (100 - strength)*5 + errorRate*100
//
// With UseRealtimeDecay the strength is first decayed to now, which is what a fresh study
// session wants. Without it the persisted strength is used, which is cheaper for listings.
type PriorityRanker struct {
	Decay            DecayModel
	UseRealtimeDecay bool
}

// RankedRecord is a progress record with its score and the strength the score was computed from
type RankedRecord struct {
	Record   models.ProgressRecord
	Strength float64
	Score    float64
}

// Strength returns the strength the ranker scores p with
func (r PriorityRanker) Strength(p models.ProgressRecord, now time.Time) float64 {
	if r.UseRealtimeDecay {
		return r.Decay.DecayedStrength(p.MemoryStrength, p.LastReviewedAt, p.EaseFactor, now)
	}
	return clampStrength(p.MemoryStrength)
}

// Priority scores a single record
func (r PriorityRanker) Priority(p models.ProgressRecord, now time.Time) float64 {
	return r.score(p, r.Strength(p, now), now)
}

func (r PriorityRanker) score(p models.ProgressRecord, strength float64, now time.Time) float64 {
	return overdueDays(p.NextReviewAt, now)*OverdueWeight +
		(models.MaxMemoryStrength-strength)*WeaknessWeight +
		p.ErrorRate()*ErrorRateWeight
}

// Rank scores records and sorts them by descending score. Equal scores keep their input order.
func (r PriorityRanker) Rank(records []models.ProgressRecord, now time.Time) []RankedRecord {
	ranked := make([]RankedRecord, len(records))
	for i, p := range records {
		s := r.Strength(p, now)
		ranked[i] = RankedRecord{Record: p, Strength: s, Score: r.score(p, s, now)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
