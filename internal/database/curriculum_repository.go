package database

import (
	"encoding/json"
	"fmt"

	"github.com/example/wanokuni/pkg/models"
)

// CurriculumRepository handles database operations for curriculum items
type CurriculumRepository struct{}

// NewCurriculumRepository creates a new repository instance
func NewCurriculumRepository() *CurriculumRepository {
	return &CurriculumRepository{}
}

type radicalRow struct {
	ID        int    `db:"id"`
	Level     int    `db:"level"`
	Character string `db:"character"`
	Meanings  string `db:"meanings"`
}

type kanjiRow struct {
	ID                  int    `db:"id"`
	Level               int    `db:"level"`
	Character           string `db:"character"`
	Meanings            string `db:"meanings"`
	OnReadings          string `db:"on_readings"`
	KunReadings         string `db:"kun_readings"`
	PrimaryOnReading    string `db:"primary_on_reading"`
	PrimaryKunReading   string `db:"primary_kun_reading"`
	ComponentRadicalIDs string `db:"component_radical_ids"`
}

type vocabularyRow struct {
	ID                int    `db:"id"`
	Level             int    `db:"level"`
	Characters        string `db:"characters"`
	Meanings          string `db:"meanings"`
	Readings          string `db:"readings"`
	ComponentKanjiIDs string `db:"component_kanji_ids"`
}

func encodeList(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeStrings(s string) []string {
	var out []string
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func decodeInts(s string) []int {
	var out []int
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// UpsertRadical inserts or replaces a radical.
func (r *CurriculumRepository) UpsertRadical(rad *models.Radical) error {
	query := DB.Rebind(`
		INSERT INTO radicals (id, level, character, meanings)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			level = EXCLUDED.level,
			character = EXCLUDED.character,
			meanings = EXCLUDED.meanings
	`)
	_, err := DB.Exec(query, rad.ID, rad.Level, rad.Character, encodeList(rad.Meanings))
	if err != nil {
		return fmt.Errorf("failed to upsert radical %d: %w", rad.ID, err)
	}
	return nil
}

// UpsertKanji inserts or replaces a kanji.
func (r *CurriculumRepository) UpsertKanji(k *models.Kanji) error {
	query := DB.Rebind(`
		INSERT INTO kanji (
			id, level, character, meanings, on_readings, kun_readings,
			primary_on_reading, primary_kun_reading, component_radical_ids
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			level = EXCLUDED.level,
			character = EXCLUDED.character,
			meanings = EXCLUDED.meanings,
			on_readings = EXCLUDED.on_readings,
			kun_readings = EXCLUDED.kun_readings,
			primary_on_reading = EXCLUDED.primary_on_reading,
			primary_kun_reading = EXCLUDED.primary_kun_reading,
			component_radical_ids = EXCLUDED.component_radical_ids
	`)
	_, err := DB.Exec(query,
		k.ID, k.Level, k.Character,
		encodeList(k.Meanings), encodeList(k.OnReadings), encodeList(k.KunReadings),
		k.PrimaryOnReading, k.PrimaryKunReading, encodeList(k.ComponentRadicalIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert kanji %d: %w", k.ID, err)
	}
	return nil
}

// UpsertVocabulary inserts or replaces a vocabulary item.
func (r *CurriculumRepository) UpsertVocabulary(v *models.Vocabulary) error {
	query := DB.Rebind(`
		INSERT INTO vocabulary (
			id, level, characters, meanings, readings, component_kanji_ids
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			level = EXCLUDED.level,
			characters = EXCLUDED.characters,
			meanings = EXCLUDED.meanings,
			readings = EXCLUDED.readings,
			component_kanji_ids = EXCLUDED.component_kanji_ids
	`)
	_, err := DB.Exec(query,
		v.ID, v.Level, v.Characters,
		encodeList(v.Meanings), encodeList(v.Readings), encodeList(v.ComponentKanjiIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vocabulary %d: %w", v.ID, err)
	}
	return nil
}

// GetAllRadicals returns every stored radical.
func (r *CurriculumRepository) GetAllRadicals() ([]models.Radical, error) {
	var rows []radicalRow
	if err := DB.Select(&rows, "SELECT * FROM radicals ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to get radicals: %w", err)
	}
	out := make([]models.Radical, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Radical{
			ID:        row.ID,
			Level:     row.Level,
			Character: row.Character,
			Meanings:  decodeStrings(row.Meanings),
		})
	}
	return out, nil
}

// GetAllKanji returns every stored kanji.
func (r *CurriculumRepository) GetAllKanji() ([]models.Kanji, error) {
	var rows []kanjiRow
	if err := DB.Select(&rows, "SELECT * FROM kanji ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to get kanji: %w", err)
	}
	out := make([]models.Kanji, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Kanji{
			ID:                  row.ID,
			Level:               row.Level,
			Character:           row.Character,
			Meanings:            decodeStrings(row.Meanings),
			OnReadings:          decodeStrings(row.OnReadings),
			KunReadings:         decodeStrings(row.KunReadings),
			PrimaryOnReading:    row.PrimaryOnReading,
			PrimaryKunReading:   row.PrimaryKunReading,
			ComponentRadicalIDs: decodeInts(row.ComponentRadicalIDs),
		})
	}
	return out, nil
}

// GetAllVocabulary returns every stored vocabulary item.
func (r *CurriculumRepository) GetAllVocabulary() ([]models.Vocabulary, error) {
	var rows []vocabularyRow
	if err := DB.Select(&rows, "SELECT * FROM vocabulary ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to get vocabulary: %w", err)
	}
	out := make([]models.Vocabulary, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Vocabulary{
			ID:                row.ID,
			Level:             row.Level,
			Characters:        row.Characters,
			Meanings:          decodeStrings(row.Meanings),
			Readings:          decodeStrings(row.Readings),
			ComponentKanjiIDs: decodeInts(row.ComponentKanjiIDs),
		})
	}
	return out, nil
}

// Counts returns how many items of each type are stored.
func (r *CurriculumRepository) Counts() (radicals, kanji, vocabulary int, err error) {
	if err = DB.Get(&radicals, "SELECT COUNT(*) FROM radicals"); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count radicals: %w", err)
	}
	if err = DB.Get(&kanji, "SELECT COUNT(*) FROM kanji"); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count kanji: %w", err)
	}
	if err = DB.Get(&vocabulary, "SELECT COUNT(*) FROM vocabulary"); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count vocabulary: %w", err)
	}
	return radicals, kanji, vocabulary, nil
}
