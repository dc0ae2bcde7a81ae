package spaced_repetition

import (
	"context"

	"github.com/example/vocabsrs/pkg/models"
)

// VocabularyStore supplies the catalog. Implemented outside the core.
type VocabularyStore interface {
	ListByLevel(ctx context.Context, level models.Level) ([]models.VocabularyItem, error)
}

// ProgressStore supplies per-user progress records. Implemented outside the core.
type ProgressStore interface {
	ListByUserAndItems(ctx context.Context, userID int64, itemIDs []int64) ([]models.ProgressRecord, error)
}

// ProgressWriter persists the state produced by SM2.UpdateWithSM2. The Scheduler never writes;
// callers do. Implementations must serialize concurrent writes for the same (user, item),
// since every write replaces the whole record.
type ProgressWriter interface {
	Upsert(ctx context.Context, record models.ProgressRecord) (models.ProgressRecord, error)
}
