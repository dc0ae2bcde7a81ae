package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/vocabsrs/pkg/models"
)

// DecayModel estimates how memory strength fades between reviews.
//
// Strength follows an exponential forgetting curve S(d) = S0 * exp(-d/tau) where
// tau = 7 * easeFactor * (1 + S0/100), so well-learned and easy items fade slower.
// All methods are pure; the caller supplies the reference time.
type DecayModel struct{}

// timeConstant returns tau in days for the given strength and ease.
func (DecayModel) timeConstant(strength, easeFactor float64) float64 {
	return BaseTimeConstantDays * easeFactor * (1 + strength/100)
}

// DecayedStrength returns the strength an item has at now, given the strength recorded at lastReviewedAt.
// Within an hour of the review the stored value is returned unchanged.
func (m DecayModel) DecayedStrength(currentStrength float64, lastReviewedAt time.Time, easeFactor float64, now time.Time) float64 {
	currentStrength = clampStrength(currentStrength)
	if currentStrength == 0 {
		return 0
	}
	if lastReviewedAt.IsZero() {
		return currentStrength
	}
	elapsed := daysBetween(lastReviewedAt, now)
	if elapsed < FreshReviewWindowDays {
		return currentStrength
	}

	tau := m.timeConstant(currentStrength, clampEase(easeFactor))
	decayed := currentStrength * math.Exp(-elapsed/tau)
	return math.Round(clampStrength(decayed))
}

// NextReviewInterval suggests how many days may pass before the item drops below the forgetting threshold.
// The result is always in [1, 30].
func (m DecayModel) NextReviewInterval(memoryStrength, easeFactor float64) int {
	memoryStrength = clampStrength(memoryStrength)
	if memoryStrength <= ForgettingThreshold {
		return MinIntervalDays
	}

	tau := m.timeConstant(memoryStrength, clampEase(easeFactor))
	daysToThreshold := tau * math.Log(memoryStrength/ForgettingThreshold)
	days := daysToThreshold * IntervalSafetyFactor
	days = math.Max(MinIntervalDays, math.Min(MaxIntervalDays, days))
	return int(math.Round(days))
}

// PriorityWithDecay scores urgency from the real-time strength and how long the review is overdue.
// Lower strength or more overdue time always increases the score.
func (m DecayModel) PriorityWithDecay(memoryStrength float64, lastReviewedAt, nextReviewAt time.Time, easeFactor float64, now time.Time) float64 {
	realTime := m.DecayedStrength(memoryStrength, lastReviewedAt, easeFactor, now)
	strengthScore := (models.MaxMemoryStrength - realTime) * WeaknessWeight
	overdueScore := overdueDays(nextReviewAt, now) * OverdueWeight
	return strengthScore + overdueScore
}

// DecayRow is one line of a decay table.
type DecayRow struct {
	Day               int     `json:"day" yaml:"day"`
	Strength          float64 `json:"strength" yaml:"strength"`
	SuggestedInterval int     `json:"suggested_interval" yaml:"suggested_interval"`
}

// Table lists the decayed strength for each day from 0 to days, starting from strength reviewed at day 0,
// together with the interval the model would suggest at that strength.
func (m DecayModel) Table(strength, easeFactor float64, days int) []DecayRow {
	if days < 0 {
		days = 0
	}
	ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]DecayRow, 0, days+1)
	for d := 0; d <= days; d++ {
		s := m.DecayedStrength(strength, ref, easeFactor, ref.AddDate(0, 0, d))
		rows = append(rows, DecayRow{
			Day:               d,
			Strength:          s,
			SuggestedInterval: m.NextReviewInterval(s, easeFactor),
		})
	}
	return rows
}

// daysBetween returns the fractional number of days from a to b.
func daysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / hoursPerDay
}

// overdueDays is how many days past nextReviewAt now is, never negative.
func overdueDays(nextReviewAt, now time.Time) float64 {
	if nextReviewAt.IsZero() {
		return 0
	}
	return math.Max(0, daysBetween(nextReviewAt, now))
}
