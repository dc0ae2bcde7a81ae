package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/vocabsrs/pkg/models"
)

// SM2 implements an SM-2 style update of a progress record after each answer
type SM2 struct {
	Decay DecayModel
	// Response times below these thresholds earn a higher quality grade
	PerfectResponseTime    time.Duration
	HesitationResponseTime time.Duration
}

// NewSM2 creates a new SM2 instance with default settings
func NewSM2() *SM2 {
	return &SM2{
		PerfectResponseTime:    2 * time.Second,
		HesitationResponseTime: 4 * time.Second,
	}
}

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// UpdateWithSM2 returns the replacement state of prev after an answer given at now.
// prev is not modified. Out-of-range strength and ease are clamped before the update.
func (sm *SM2) UpdateWithSM2(prev models.ProgressRecord, isCorrect bool, now time.Time) models.ProgressRecord {
	next := prev
	next.MemoryStrength = clampStrength(prev.MemoryStrength)
	next.EaseFactor = clampEase(prev.EaseFactor)
	if next.Repetitions < 0 {
		next.Repetitions = 0
	}
	if next.TotalReviews < 0 {
		next.TotalReviews = 0
	}
	if next.IncorrectReviews < 0 {
		next.IncorrectReviews = 0
	}
	if next.IncorrectReviews > next.TotalReviews {
		next.IncorrectReviews = next.TotalReviews
	}

	var interval int
	if isCorrect {
		next.Repetitions++
		next.MemoryStrength = math.Min(models.MaxMemoryStrength, next.MemoryStrength+CorrectStrengthGain)
		next.EaseFactor = math.Min(models.MaxEaseFactor, next.EaseFactor+CorrectEaseGain)
		interval = sm.Decay.NextReviewInterval(next.MemoryStrength, next.EaseFactor)
	} else {
		// Incorrect response - start the item over
		next.Repetitions = 0
		next.MemoryStrength = math.Max(models.MinMemoryStrength, next.MemoryStrength-IncorrectStrengthLoss)
		next.EaseFactor = math.Max(models.MinEaseFactor, next.EaseFactor-IncorrectEaseLoss)
		next.IncorrectReviews++
		interval = MinIntervalDays
	}
	// Float drift from repeated +0.1/-0.2 steps
	next.EaseFactor = math.Round(next.EaseFactor*100) / 100

	next.TotalReviews++
	next.IntervalDays = float64(interval)
	next.LastReviewedAt = now
	next.NextReviewAt = now.AddDate(0, 0, interval)
	next.Status = sm.statusFor(next)
	return next
}

func (sm *SM2) statusFor(p models.ProgressRecord) models.Status {
	switch {
	case p.Repetitions == 0:
		return models.StatusLearning
	case sm.IsMastered(p):
		return models.StatusMastered
	default:
		return models.StatusReviewing
	}
}

// IsMastered determines if an item is considered mastered:
// strength of at least 80 and at least 5 consecutive correct answers.
func (sm *SM2) IsMastered(p models.ProgressRecord) bool {
	return p.MemoryStrength >= MasteryStrength && p.Repetitions >= MasteryRepetitions
}

// CalculateQuality grades an answer from its correctness and response time.
// The primary update path does not consume the grade yet; it is recorded for tuning.
func (sm *SM2) CalculateQuality(isCorrect bool, responseTime time.Duration) QualityResponse {
	switch {
	case !isCorrect:
		return QualityBlackout
	case responseTime < sm.PerfectResponseTime:
		return QualityPerfect
	case responseTime < sm.HesitationResponseTime:
		return QualityCorrectHesitation
	default:
		return QualityCorrectDifficult
	}
}
