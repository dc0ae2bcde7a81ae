package spaced_repetition

import (
	"math"

	"github.com/example/vocabsrs/pkg/models"
)

// Tuning constants of the decay model. They are fixed; there is no calibration.
const (
	// BaseTimeConstantDays scales the forgetting time constant tau.
	BaseTimeConstantDays = 7.0
	// IntervalSafetyFactor shortens the computed time-to-threshold so reviews land before forgetting.
	IntervalSafetyFactor = 0.6
	// ForgettingThreshold is the strength below which an item counts as forgotten.
	ForgettingThreshold = 20.0
	// FreshReviewWindowDays: no decay is applied within an hour of the last review.
	FreshReviewWindowDays = 1.0 / 24.0

	MinIntervalDays = 1
	MaxIntervalDays = 30
)

// Update engine steps.
const (
	CorrectStrengthGain   = 10.0
	IncorrectStrengthLoss = 20.0
	CorrectEaseGain       = 0.1
	IncorrectEaseLoss     = 0.2

	MasteryStrength    = 80.0
	MasteryRepetitions = 5
)

// Priority weights.
const (
	OverdueWeight   = 10.0
	WeaknessWeight  = 5.0
	ErrorRateWeight = 100.0
)

// Batch assembly quotas.
const (
	DefaultBatchSize = 15
	MaxNewWords      = 5
	MaxReviewWords   = 10
)

const hoursPerDay = 24.0

// clampStrength forces s into [0, 100]; NaN is treated as 0.
func clampStrength(s float64) float64 {
	switch {
	case math.IsNaN(s), s < models.MinMemoryStrength:
		return models.MinMemoryStrength
	case s > models.MaxMemoryStrength:
		return models.MaxMemoryStrength
	}
	return s
}

// clampEase forces e into [1.3, 2.5]; NaN falls back to the default ease.
func clampEase(e float64) float64 {
	switch {
	case math.IsNaN(e):
		return models.DefaultEaseFactor
	case e < models.MinEaseFactor:
		return models.MinEaseFactor
	case e > models.MaxEaseFactor:
		return models.MaxEaseFactor
	}
	return e
}
