package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"time"
)

// Status is the learning stage of a progress record
type Status int

const (
	StatusNew Status = iota + 1
	StatusLearning
	StatusReviewing
	StatusMastered
)

var statusNames = [...]string{
	StatusNew:       "NEW",
	StatusLearning:  "LEARNING",
	StatusReviewing: "REVIEWING",
	StatusMastered:  "MASTERED",
}

func (s Status) Valid() bool {
	return s >= StatusNew && s <= StatusMastered
}

func (s Status) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status: %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	for v := StatusNew; v <= StatusMastered; v++ {
		if statusNames[v] == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("invalid status: %q", text)
}

// Value stores the status as its name
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status: %d", int(s))
	}
	return statusNames[s], nil
}

// Scan reads a status stored as text
func (s *Status) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}
}

// Bounds of the numeric fields of a ProgressRecord.
const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
	DefaultEaseFactor = 2.5
	MinMemoryStrength = 0.0
	MaxMemoryStrength = 100.0
)

// ErrInvalidProgress is returned by Validate for records with out-of-range fields
var ErrInvalidProgress = errors.New("invalid progress record")

// ProgressRecord tracks a user's progress with a single vocabulary item.
// Records are created on first exposure and only replaced, never deleted.
type ProgressRecord struct {
	UserID           int64     `json:"user_id" yaml:"user_id"`
	ItemID           int64     `json:"item_id" yaml:"item_id"`
	Repetitions      int       `json:"repetitions" yaml:"repetitions"`
	IntervalDays     float64   `json:"interval_days" yaml:"interval_days"`
	EaseFactor       float64   `json:"ease_factor" yaml:"ease_factor"`
	MemoryStrength   float64   `json:"memory_strength" yaml:"memory_strength"` // 0-100
	LastReviewedAt   time.Time `json:"last_reviewed_at" yaml:"last_reviewed_at"`
	NextReviewAt     time.Time `json:"next_review_at" yaml:"next_review_at"`
	Status           Status    `json:"status" yaml:"status"`
	TotalReviews     int       `json:"total_reviews" yaml:"total_reviews"`
	IncorrectReviews int       `json:"incorrect_reviews" yaml:"incorrect_reviews"`
	// Version is the persisted revision the record was read at; zero for records never stored.
	Version int64 `json:"version" yaml:"version"`
}

// NewProgressRecord creates the record for a user's first exposure to an item
func NewProgressRecord(userID, itemID int64, now time.Time) ProgressRecord {
	return ProgressRecord{
		UserID:         userID,
		ItemID:         itemID,
		EaseFactor:     DefaultEaseFactor,
		MemoryStrength: MinMemoryStrength,
		LastReviewedAt: now,
		NextReviewAt:   now,
		Status:         StatusNew,
	}
}

// Validate checks the numeric invariants of the record
func (p ProgressRecord) Validate() error {
	switch {
	case p.Repetitions < 0:
		return fmt.Errorf("%w: repetitions %d < 0", ErrInvalidProgress, p.Repetitions)
	case math.IsNaN(p.EaseFactor) || p.EaseFactor < MinEaseFactor || p.EaseFactor > MaxEaseFactor:
		return fmt.Errorf("%w: ease factor %.2f outside [%.1f, %.1f]", ErrInvalidProgress, p.EaseFactor, MinEaseFactor, MaxEaseFactor)
	case math.IsNaN(p.MemoryStrength) || p.MemoryStrength < MinMemoryStrength || p.MemoryStrength > MaxMemoryStrength:
		return fmt.Errorf("%w: memory strength %.2f outside [0, 100]", ErrInvalidProgress, p.MemoryStrength)
	case p.IntervalDays < 0:
		return fmt.Errorf("%w: interval %.2f < 0", ErrInvalidProgress, p.IntervalDays)
	case !p.Status.Valid():
		return fmt.Errorf("%w: %v", ErrInvalidProgress, p.Status)
	case p.TotalReviews < 0 || p.IncorrectReviews < 0 || p.IncorrectReviews > p.TotalReviews:
		return fmt.Errorf("%w: reviews %d/%d", ErrInvalidProgress, p.IncorrectReviews, p.TotalReviews)
	}
	return nil
}

// Normalized returns a copy of p with every field forced into its valid range.
// NaN strength becomes 0 and NaN ease the default; an unknown status becomes LEARNING.
func (p ProgressRecord) Normalized() ProgressRecord {
	p.Repetitions = max(0, p.Repetitions)
	p.TotalReviews = max(0, p.TotalReviews)
	p.IncorrectReviews = min(max(0, p.IncorrectReviews), p.TotalReviews)
	if math.IsNaN(p.IntervalDays) || p.IntervalDays < 0 {
		p.IntervalDays = 0
	}
	switch {
	case math.IsNaN(p.MemoryStrength), p.MemoryStrength < MinMemoryStrength:
		p.MemoryStrength = MinMemoryStrength
	case p.MemoryStrength > MaxMemoryStrength:
		p.MemoryStrength = MaxMemoryStrength
	}
	switch {
	case math.IsNaN(p.EaseFactor):
		p.EaseFactor = DefaultEaseFactor
	case p.EaseFactor < MinEaseFactor:
		p.EaseFactor = MinEaseFactor
	case p.EaseFactor > MaxEaseFactor:
		p.EaseFactor = MaxEaseFactor
	}
	if !p.Status.Valid() {
		p.Status = StatusLearning
	}
	return p
}

// ErrorRate is the share of incorrect reviews in [0, 1], zero when the item was never reviewed
func (p ProgressRecord) ErrorRate() float64 {
	if p.TotalReviews <= 0 || p.IncorrectReviews <= 0 {
		return 0
	}
	return math.Min(1, float64(p.IncorrectReviews)/float64(p.TotalReviews))
}

// IsDue reports whether the record should be reviewed at now
func (p ProgressRecord) IsDue(now time.Time) bool {
	return !p.NextReviewAt.After(now) && p.Status != StatusMastered
}
