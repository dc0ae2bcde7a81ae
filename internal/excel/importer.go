package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/example/vocabsrs/pkg/models"
)

// WordStore receives imported catalog items
type WordStore interface {
	Upsert(ctx context.Context, item *models.VocabularyItem) (inserted bool, err error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath        string       // Path to the Excel or CSV file
	TextColumn      string       // Column with the word or phrase
	LanguageColumn  string       // Column with the language code
	LevelColumn     string       // Column with the level name
	AudioColumn     string       // Column with the pronunciation audio URL, optional
	SheetName       string       // Name of the sheet to import, empty means the first sheet
	StartRow        int          // The row to start importing from (1-based index)
	DefaultLanguage string       // Used when the language cell is empty
	DefaultLevel    models.Level // Used when the level cell is empty, zero means the cell is required
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TextColumn:      "A",
		LanguageColumn:  "B",
		LevelColumn:     "C",
		AudioColumn:     "D",
		StartRow:        2, // By default, start from the second row (skip header)
		DefaultLanguage: "en",
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int      `json:"total_processed" yaml:"total_processed"`
	Created        int      `json:"created" yaml:"created"`
	Updated        int      `json:"updated" yaml:"updated"`
	Skipped        int      `json:"skipped" yaml:"skipped"`
	Errors         []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Importer loads catalog items from spreadsheets
type Importer struct {
	store  WordStore
	logger zerolog.Logger
}

// NewImporter creates an importer writing to store
func NewImporter(store WordStore, logger zerolog.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// ImportWords imports words from an Excel or CSV file
func (im *Importer) ImportWords(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}
	return im.ImportRows(ctx, rows, config)
}

// ImportRows imports already parsed rows; row numbers in errors are 1-based
func (im *Importer) ImportRows(ctx context.Context, rows [][]string, config ImportConfig) (*ImportResult, error) {
	columns, err := config.columns()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		if blank(row) {
			continue
		}
		result.TotalProcessed++

		item, err := config.parseRow(row, columns)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}

		inserted, err := im.store.Upsert(ctx, &item)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		if inserted {
			result.Created++
		} else {
			result.Updated++
		}
	}

	im.logger.Info().
		Str("file", config.FilePath).
		Int("processed", result.TotalProcessed).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("catalog import finished")
	return result, nil
}

type columnIndexes struct {
	text, language, level, audio int
}

func (config ImportConfig) columns() (columnIndexes, error) {
	idx := columnIndexes{language: -1, level: -1, audio: -1}
	var err error
	if idx.text, err = columnToIndex(config.TextColumn); err != nil {
		return idx, err
	}
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{config.LanguageColumn, &idx.language},
		{config.LevelColumn, &idx.level},
		{config.AudioColumn, &idx.audio},
	} {
		if c.name == "" {
			continue
		}
		if *c.dst, err = columnToIndex(c.name); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func (config ImportConfig) parseRow(row []string, columns columnIndexes) (models.VocabularyItem, error) {
	item := models.VocabularyItem{
		Text:     cleanWord(cell(row, columns.text)),
		Language: strings.ToLower(strings.TrimSpace(cell(row, columns.language))),
		AudioURL: strings.TrimSpace(cell(row, columns.audio)),
	}
	if item.Text == "" {
		return item, errors.New("word cannot be empty")
	}
	if item.Language == "" {
		item.Language = config.DefaultLanguage
	}
	if item.Language == "" {
		return item, errors.New("language cannot be empty")
	}

	levelName := strings.TrimSpace(cell(row, columns.level))
	switch {
	case levelName != "":
		level, err := models.ParseLevel(levelName)
		if err != nil {
			return item, err
		}
		item.Level = level
	case config.DefaultLevel.Valid():
		item.Level = config.DefaultLevel
	default:
		return item, errors.New("level cannot be empty")
	}
	return item, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cleanWord removes trailing notes in parentheses, e.g. "go (went, gone)"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(column))
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", column, err)
	}
	return n - 1, nil
}
