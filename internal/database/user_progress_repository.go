package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/pkg/models"
)

// Item IDs per IN (...) clause, well below SQLite's bound parameter limit
const inClauseChunk = 500

const progressColumns = `user_id, item_id, repetitions, interval_days, ease_factor, memory_strength,
	last_reviewed_at, next_review_at, status, total_reviews, incorrect_reviews, version`

// progressRow is the stored form of a ProgressRecord; timestamps are unix milliseconds
type progressRow struct {
	UserID           int64         `db:"user_id"`
	ItemID           int64         `db:"item_id"`
	Repetitions      int           `db:"repetitions"`
	IntervalDays     float64       `db:"interval_days"`
	EaseFactor       float64       `db:"ease_factor"`
	MemoryStrength   float64       `db:"memory_strength"`
	LastReviewedAt   int64         `db:"last_reviewed_at"`
	NextReviewAt     int64         `db:"next_review_at"`
	Status           models.Status `db:"status"`
	TotalReviews     int           `db:"total_reviews"`
	IncorrectReviews int           `db:"incorrect_reviews"`
	Version          int64         `db:"version"`
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func (r progressRow) record() models.ProgressRecord {
	return models.ProgressRecord{
		UserID:           r.UserID,
		ItemID:           r.ItemID,
		Repetitions:      r.Repetitions,
		IntervalDays:     r.IntervalDays,
		EaseFactor:       r.EaseFactor,
		MemoryStrength:   r.MemoryStrength,
		LastReviewedAt:   fromMillis(r.LastReviewedAt),
		NextReviewAt:     fromMillis(r.NextReviewAt),
		Status:           r.Status,
		TotalReviews:     r.TotalReviews,
		IncorrectReviews: r.IncorrectReviews,
		Version:          r.Version,
	}
}

// UserProgressRepository handles database operations for user progress
type UserProgressRepository struct {
	db *sqlx.DB
}

// NewUserProgressRepository creates a new repository instance
func NewUserProgressRepository(db *sqlx.DB) *UserProgressRepository {
	return &UserProgressRepository{db: db}
}

// ListByUserAndItems returns the user's progress records for the given items
func (r *UserProgressRepository) ListByUserAndItems(ctx context.Context, userID int64, itemIDs []int64) ([]models.ProgressRecord, error) {
	var records []models.ProgressRecord
	for start := 0; start < len(itemIDs); start += inClauseChunk {
		chunk := itemIDs[start:min(start+inClauseChunk, len(itemIDs))]

		query, args, err := sqlx.In(
			"SELECT "+progressColumns+" FROM srs_progress WHERE user_id = ? AND item_id IN (?)",
			userID, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to build progress query: %w", err)
		}

		var rows []progressRow
		if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to get user progress: %w", err)
		}
		for _, row := range rows {
			records = append(records, row.record())
		}
	}
	return records, nil
}

// GetByUserAndItem returns progress for a specific user and item
func (r *UserProgressRepository) GetByUserAndItem(ctx context.Context, userID, itemID int64) (*models.ProgressRecord, error) {
	var row progressRow
	query := r.db.Rebind("SELECT " + progressColumns + " FROM srs_progress WHERE user_id = ? AND item_id = ?")
	err := r.db.GetContext(ctx, &row, query, userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("progress of user %d on item %d: %w", userID, itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", err)
	}
	rec := row.record()
	return &rec, nil
}

// Upsert stores record if the stored row is still at record.Version (zero meaning no row yet).
// It returns the record with its new version, or ErrVersionConflict when another writer got there first.
func (r *UserProgressRepository) Upsert(ctx context.Context, record models.ProgressRecord) (models.ProgressRecord, error) {
	if err := record.Validate(); err != nil {
		return record, err
	}

	query := r.db.Rebind(`
		INSERT INTO srs_progress (` + progressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			repetitions = excluded.repetitions,
			interval_days = excluded.interval_days,
			ease_factor = excluded.ease_factor,
			memory_strength = excluded.memory_strength,
			last_reviewed_at = excluded.last_reviewed_at,
			next_review_at = excluded.next_review_at,
			status = excluded.status,
			total_reviews = excluded.total_reviews,
			incorrect_reviews = excluded.incorrect_reviews,
			version = srs_progress.version + 1
		WHERE srs_progress.version = ?
	`)

	res, err := r.db.ExecContext(ctx, query,
		record.UserID,
		record.ItemID,
		record.Repetitions,
		record.IntervalDays,
		record.EaseFactor,
		record.MemoryStrength,
		toMillis(record.LastReviewedAt),
		toMillis(record.NextReviewAt),
		record.Status,
		record.TotalReviews,
		record.IncorrectReviews,
		record.Version,
	)
	if err != nil {
		return record, fmt.Errorf("failed to save user progress: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return record, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return record, fmt.Errorf("progress of user %d on item %d at version %d: %w",
			record.UserID, record.ItemID, record.Version, ErrVersionConflict)
	}

	record.Version++
	return record, nil
}

// ListByUser returns all progress records of a user
func (r *UserProgressRepository) ListByUser(ctx context.Context, userID int64) ([]models.ProgressRecord, error) {
	var rows []progressRow
	query := r.db.Rebind("SELECT " + progressColumns + " FROM srs_progress WHERE user_id = ? ORDER BY item_id")
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", err)
	}
	records := make([]models.ProgressRecord, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}
