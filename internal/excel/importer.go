package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/wanokuni/internal/database"
	"github.com/example/wanokuni/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath        string // Path to the Excel or CSV file
	RadicalsSheet   string // Sheet with radicals
	KanjiSheet      string // Sheet with kanji
	VocabularySheet string // Sheet with vocabulary
	StartRow        int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		RadicalsSheet:   "Radicals",
		KanjiSheet:      "Kanji",
		VocabularySheet: "Vocabulary",
		StartRow:        2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Radicals       int
	Kanji          int
	Vocabulary     int
	Skipped        int
	Errors         []string
}

// ImportCurriculum imports curriculum items from an Excel or CSV file.
//
// Excel files carry three sheets. The radicals sheet has columns
// id, level, character, meanings; the kanji sheet adds on/kun readings,
// the primary readings and component radical ids; the vocabulary sheet
// has readings and component kanji ids. List columns are
// comma-separated. CSV files carry the item type as the first column
// with the same fields following.
func ImportCurriculum(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}

	return importFromExcel(config)
}

// importFromExcel imports curriculum items from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	repo := database.NewCurriculumRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	sheets := []struct {
		name string
		kind models.ItemType
	}{
		{config.RadicalsSheet, models.TypeRadical},
		{config.KanjiSheet, models.TypeKanji},
		{config.VocabularySheet, models.TypeVocabulary},
	}

	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet.name)
		if err != nil {
			// A data set without vocabulary (or kanji) is legal.
			continue
		}
		for i, row := range rows {
			if i < config.StartRow-1 {
				continue
			}
			result.TotalProcessed++
			if err := processRow(sheet.kind, row, repo, result); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", sheet.name, i+1, err))
			}
		}
	}

	return result, nil
}

// importFromCSV imports curriculum items from a CSV file. The first
// column names the item type; the remaining columns match the Excel
// layout for that type.
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	repo := database.NewCurriculumRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		if len(row) == 0 {
			continue
		}

		kind := models.ItemType(strings.ToLower(strings.TrimSpace(row[0])))
		if !kind.Valid() {
			result.Skipped++
			continue
		}

		result.TotalProcessed++
		if err := processRow(kind, row[1:], repo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// processRow dispatches one data row to the matching upsert.
func processRow(kind models.ItemType, row []string, repo *database.CurriculumRepository, result *ImportResult) error {
	switch kind {
	case models.TypeRadical:
		rad, err := parseRadical(row)
		if err != nil {
			return err
		}
		if err := repo.UpsertRadical(rad); err != nil {
			return err
		}
		result.Radicals++

	case models.TypeKanji:
		k, err := parseKanji(row)
		if err != nil {
			return err
		}
		if err := repo.UpsertKanji(k); err != nil {
			return err
		}
		result.Kanji++

	case models.TypeVocabulary:
		v, err := parseVocabulary(row)
		if err != nil {
			return err
		}
		if err := repo.UpsertVocabulary(v); err != nil {
			return err
		}
		result.Vocabulary++
	}

	return nil
}

func parseRadical(row []string) (*models.Radical, error) {
	if len(row) < 4 {
		return nil, fmt.Errorf("expected at least 4 columns, got %d", len(row))
	}
	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", row[0])
	}
	level, err := parseLevel(row[1])
	if err != nil {
		return nil, err
	}
	meanings := splitList(row[3])
	if len(meanings) == 0 {
		return nil, fmt.Errorf("radical %d has no meanings", id)
	}
	return &models.Radical{
		ID:        id,
		Level:     level,
		Character: strings.TrimSpace(row[2]),
		Meanings:  meanings,
	}, nil
}

func parseKanji(row []string) (*models.Kanji, error) {
	if len(row) < 9 {
		return nil, fmt.Errorf("expected at least 9 columns, got %d", len(row))
	}
	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", row[0])
	}
	level, err := parseLevel(row[1])
	if err != nil {
		return nil, err
	}
	meanings := splitList(row[3])
	if len(meanings) == 0 {
		return nil, fmt.Errorf("kanji %d has no meanings", id)
	}
	radicalIDs, err := splitIntList(row[8])
	if err != nil {
		return nil, fmt.Errorf("kanji %d: %w", id, err)
	}
	return &models.Kanji{
		ID:                  id,
		Level:               level,
		Character:           strings.TrimSpace(row[2]),
		Meanings:            meanings,
		OnReadings:          splitList(row[4]),
		KunReadings:         splitList(row[5]),
		PrimaryOnReading:    strings.TrimSpace(row[6]),
		PrimaryKunReading:   strings.TrimSpace(row[7]),
		ComponentRadicalIDs: radicalIDs,
	}, nil
}

func parseVocabulary(row []string) (*models.Vocabulary, error) {
	if len(row) < 6 {
		return nil, fmt.Errorf("expected at least 6 columns, got %d", len(row))
	}
	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", row[0])
	}
	level, err := parseLevel(row[1])
	if err != nil {
		return nil, err
	}
	meanings := splitList(row[3])
	if len(meanings) == 0 {
		return nil, fmt.Errorf("vocabulary %d has no meanings", id)
	}
	kanjiIDs, err := splitIntList(row[5])
	if err != nil {
		return nil, fmt.Errorf("vocabulary %d: %w", id, err)
	}
	return &models.Vocabulary{
		ID:                id,
		Level:             level,
		Characters:        strings.TrimSpace(row[2]),
		Meanings:          meanings,
		Readings:          splitList(row[4]),
		ComponentKanjiIDs: kanjiIDs,
	}, nil
}

func parseLevel(s string) (int, error) {
	level, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || level < 1 {
		return 0, fmt.Errorf("invalid level %q", s)
	}
	return level, nil
}

// splitList splits a comma-separated cell into trimmed entries.
func splitList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitIntList splits a comma-separated cell into ids.
func splitIntList(cell string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid id list entry %q", part)
		}
		out = append(out, id)
	}
	return out, nil
}
