package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/pkg/models"
)

const vocabularyColumns = "id, text, language, level, audio_url"

// WordRepository handles database operations for the vocabulary catalog
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// ListByLevel returns the catalog of a level ordered by ID
func (r *WordRepository) ListByLevel(ctx context.Context, level models.Level) ([]models.VocabularyItem, error) {
	var items []models.VocabularyItem
	query := r.db.Rebind("SELECT " + vocabularyColumns + " FROM vocabulary WHERE level = ? ORDER BY id")
	if err := r.db.SelectContext(ctx, &items, query, level); err != nil {
		return nil, fmt.Errorf("failed to get words by level: %w", err)
	}
	return items, nil
}

// GetByID returns a catalog item by ID
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	query := r.db.Rebind("SELECT " + vocabularyColumns + " FROM vocabulary WHERE id = ?")
	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word by ID: %w", err)
	}
	return &item, nil
}

// CountByLevel returns the number of catalog items per level
func (r *WordRepository) CountByLevel(ctx context.Context) (map[models.Level]int, error) {
	var rows []struct {
		Level models.Level `db:"level"`
		Count int          `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, "SELECT level, COUNT(*) AS n FROM vocabulary GROUP BY level"); err != nil {
		return nil, fmt.Errorf("failed to count words: %w", err)
	}
	counts := make(map[models.Level]int, len(rows))
	for _, row := range rows {
		counts[row.Level] = row.Count
	}
	return counts, nil
}

// Upsert inserts an item, or refreshes the audio URL of an existing item with the same
// text, language and level. The stored ID is written back to item.
func (r *WordRepository) Upsert(ctx context.Context, item *models.VocabularyItem) (inserted bool, err error) {
	if !item.Level.Valid() {
		return false, fmt.Errorf("invalid level for %q: %v", item.Text, item.Level)
	}

	var existing int64
	query := r.db.Rebind("SELECT id FROM vocabulary WHERE text = ? AND language = ? AND level = ?")
	err = r.db.GetContext(ctx, &existing, query, item.Text, item.Language, item.Level)
	switch {
	case err == nil:
		update := r.db.Rebind("UPDATE vocabulary SET audio_url = ? WHERE id = ?")
		if _, err := r.db.ExecContext(ctx, update, item.AudioURL, existing); err != nil {
			return false, fmt.Errorf("failed to update word: %w", err)
		}
		item.ID = existing
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("failed to look up word: %w", err)
	}

	insert := r.db.Rebind(`
		INSERT INTO vocabulary (text, language, level, audio_url)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	if err := r.db.QueryRowxContext(ctx, insert, item.Text, item.Language, item.Level, item.AudioURL).Scan(&item.ID); err != nil {
		return false, fmt.Errorf("failed to create word: %w", err)
	}
	return true, nil
}
