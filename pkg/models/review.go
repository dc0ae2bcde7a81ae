package models

// WordToReview is one entry of a study batch
type WordToReview struct {
	Item           VocabularyItem  `json:"item" yaml:"item"`
	IsNew          bool            `json:"is_new" yaml:"is_new"`
	NeedsReview    bool            `json:"needs_review" yaml:"needs_review"`
	MemoryStrength float64         `json:"memory_strength" yaml:"memory_strength"` // Real-time (decayed) strength; 0 for new items
	Priority       float64         `json:"priority,omitempty" yaml:"priority,omitempty"`
	Progress       *ProgressRecord `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// BatchStatistics summarises a user's standing on one level
type BatchStatistics struct {
	TotalWords    int `json:"total_words" yaml:"total_words"`
	LearnedWords  int `json:"learned_words" yaml:"learned_words"`
	MasteredWords int `json:"mastered_words" yaml:"mastered_words"`
	DueForReview  int `json:"due_for_review" yaml:"due_for_review"`
}

// IntegrityWarning reports a progress record that could not be matched to the catalog
type IntegrityWarning struct {
	UserID int64  `json:"user_id" yaml:"user_id"`
	ItemID int64  `json:"item_id" yaml:"item_id"`
	Reason string `json:"reason" yaml:"reason"`
}

// StudyBatch is the ranked set of items returned for one scheduling request. It is never persisted.
type StudyBatch struct {
	ID          string             `json:"id" yaml:"id"`
	UserID      int64              `json:"user_id" yaml:"user_id"`
	Level       Level              `json:"level" yaml:"level"`
	Words       []WordToReview     `json:"words" yaml:"words"`
	NewWords    []WordToReview     `json:"new_words" yaml:"new_words"`
	ReviewWords []WordToReview     `json:"review_words" yaml:"review_words"`
	Statistics  BatchStatistics    `json:"statistics" yaml:"statistics"`
	Warnings    []IntegrityWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
