package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/pkg/models"
)

type memoryStore struct {
	items  map[string]models.VocabularyItem
	nextID int64
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[string]models.VocabularyItem{}}
}

func (m *memoryStore) Upsert(_ context.Context, item *models.VocabularyItem) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	key := item.Text + "|" + item.Language + "|" + item.Level.String()
	if existing, ok := m.items[key]; ok {
		item.ID = existing.ID
		m.items[key] = *item
		return false, nil
	}
	m.nextID++
	item.ID = m.nextID
	m.items[key] = *item
	return true, nil
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportExcel(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Text", "Language", "Level", "Audio"},
		{"apple", "en", "ELEMENTARY", "https://cdn.example.com/apple.mp3"},
		{"go (went, gone)", "EN", "elementary"},
		{"nevertheless", "", "high-intermediate"},
		{"", "en", "ELEMENTARY"},
		{"pear", "en", "ADVANCED"},
		{"apple", "en", "ELEMENTARY", "https://cdn.example.com/apple-v2.mp3"},
	})

	store := newMemoryStore()
	im := NewImporter(store, zerolog.Nop())
	cfg := DefaultImportConfig()
	cfg.FilePath = path

	result, err := im.ImportWords(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalProcessed)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Row 5")
	assert.Contains(t, result.Errors[1], "Row 6")

	assert.Contains(t, store.items, "go|en|ELEMENTARY")
	assert.Contains(t, store.items, "nevertheless|en|HIGH_INTERMEDIATE")
	assert.Equal(t, "https://cdn.example.com/apple-v2.mp3", store.items["apple|en|ELEMENTARY"].AudioURL)
}

func TestImportCSVWithDefaultLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	content := "text,language,level\n" +
		"run,en,\n" +
		"\"walk, stroll\",en,INTERMEDIATE\n" +
		",,\n" +
		"swim\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store := newMemoryStore()
	cfg := DefaultImportConfig()
	cfg.FilePath = path
	cfg.DefaultLevel = models.LevelElementary

	result, err := NewImporter(store, zerolog.Nop()).ImportWords(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 3, result.Created)
	assert.Empty(t, result.Errors)
	assert.Contains(t, store.items, "walk, stroll|en|INTERMEDIATE")
	assert.Contains(t, store.items, "swim|en|ELEMENTARY")
}

func TestImportRequiresLevelWithoutDefault(t *testing.T) {
	store := newMemoryStore()
	result, err := NewImporter(store, zerolog.Nop()).ImportRows(context.Background(),
		[][]string{{"text"}, {"orphan", "en"}}, DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, store.items)
}

func TestImportStoreErrorsAreRowErrors(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("disk full")
	result, err := NewImporter(store, zerolog.Nop()).ImportRows(context.Background(),
		[][]string{{"h"}, {"a", "en", "ELEMENTARY"}}, DefaultImportConfig())
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "disk full")
}

func TestImportInvalidColumn(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.LevelColumn = "1"
	_, err := NewImporter(newMemoryStore(), zerolog.Nop()).ImportRows(context.Background(), nil, cfg)
	assert.Error(t, err)
}

func TestImportMissingFile(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "missing.xlsx")
	_, err := NewImporter(newMemoryStore(), zerolog.Nop()).ImportWords(context.Background(), cfg)
	assert.Error(t, err)
}

func TestImportIntoDatabase(t *testing.T) {
	db, err := database.Connect(database.Config{Type: database.TypeSQLitePure, URL: ":memory:"})
	require.NoError(t, err)
	defer db.Close()
	words := database.NewWordRepository(db)

	rows := [][]string{
		{"text", "language", "level"},
		{"cat", "en", "ELEMENTARY"},
		{"dog", "en", "ELEMENTARY"},
		{"cat", "en", "ELEMENTARY"},
		{"ubiquitous", "en", "HIGH_INTERMEDIATE"},
	}
	result, err := NewImporter(words, zerolog.Nop()).ImportRows(context.Background(), rows, DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 1, result.Updated)

	elementary, err := words.ListByLevel(context.Background(), models.LevelElementary)
	require.NoError(t, err)
	assert.Len(t, elementary, 2)
}
