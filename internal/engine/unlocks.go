package engine

import (
	"github.com/example/wanokuni/pkg/models"
)

// resolveUnlocks computes the items that become eligible now that the
// given record's item reached Guru, seeds their lesson records, and
// returns the created keys. Callers hold e.mu.
//
// Mastering a radical can unlock kanji; mastering a kanji can unlock
// vocabulary. Vocabulary unlocks nothing. Items referencing unknown ids
// are skipped, never fatal: they stay locked until the data resolves.
func (e *Engine) resolveUnlocks(key models.ProgressKey) []models.ProgressKey {
	switch key.Type {
	case models.TypeRadical:
		return e.unlockKanjiUsing(key.ID)
	case models.TypeKanji:
		return e.unlockVocabularyUsing(key.ID)
	}
	return nil
}

// unlockKanjiUsing seeds lesson records for every kanji within the
// current level whose component radicals are all at Guru or above.
func (e *Engine) unlockKanjiUsing(radicalID int) []models.ProgressKey {
	var created []models.ProgressKey

	for _, k := range e.catalog.KanjiUsingRadical(radicalID) {
		if k.Level > e.currentLevel {
			continue
		}
		if !e.allRadicalsGuru(k.ComponentRadicalIDs) {
			continue
		}
		created = append(created, e.seedKanji(k)...)
	}

	return created
}

// unlockVocabularyUsing seeds lesson records for every vocabulary item
// depending on the kanji, once all of its prerequisite kanji are at Guru.
// For items matched only by character substring the triggering kanji is
// the sole known prerequisite.
func (e *Engine) unlockVocabularyUsing(kanjiID int) []models.ProgressKey {
	var created []models.ProgressKey

	for _, v := range e.catalog.VocabularyUsingKanji(kanjiID) {
		prereqs := v.ComponentKanjiIDs
		if len(prereqs) == 0 {
			prereqs = []int{kanjiID}
		}
		if !e.allKanjiGuru(prereqs) {
			continue
		}

		meaningKey := models.ProgressKey{Type: models.TypeVocabulary, ID: v.ID, Question: models.QuestionMeaning}
		if _, exists := e.records[meaningKey]; !exists {
			rec := models.NewLessonRecord(meaningKey)
			e.records[meaningKey] = rec
			e.persist(rec)
			created = append(created, meaningKey)
		}

		if len(v.Readings) > 0 {
			readingKey := models.ProgressKey{Type: models.TypeVocabulary, ID: v.ID, Question: models.QuestionReading}
			if _, exists := e.records[readingKey]; !exists {
				rec := models.NewLessonRecord(readingKey)
				e.records[readingKey] = rec
				e.persist(rec)
				created = append(created, readingKey)
			}
		}
	}

	return created
}

// seedKanji creates the meaning record (and reading record when the
// kanji has readings) if not already present.
func (e *Engine) seedKanji(k *models.Kanji) []models.ProgressKey {
	var created []models.ProgressKey

	meaningKey := models.ProgressKey{Type: models.TypeKanji, ID: k.ID, Question: models.QuestionMeaning}
	if _, exists := e.records[meaningKey]; !exists {
		rec := models.NewLessonRecord(meaningKey)
		e.records[meaningKey] = rec
		e.persist(rec)
		created = append(created, meaningKey)
	}

	if k.HasReadings() {
		readingKey := models.ProgressKey{Type: models.TypeKanji, ID: k.ID, Question: models.QuestionReading}
		if _, exists := e.records[readingKey]; !exists {
			rec := models.NewLessonRecord(readingKey)
			e.records[readingKey] = rec
			e.persist(rec)
			created = append(created, readingKey)
		}
	}

	return created
}

// allRadicalsGuru reports whether every listed radical has a meaning
// record at Guru or above. A missing record fails the check.
func (e *Engine) allRadicalsGuru(radicalIDs []int) bool {
	for _, id := range radicalIDs {
		key := models.ProgressKey{Type: models.TypeRadical, ID: id, Question: models.QuestionMeaning}
		rec, ok := e.records[key]
		if !ok || rec.SRSStage < models.StageGuru {
			return false
		}
	}
	return true
}

// allKanjiGuru reports whether every listed kanji is at Guru or above on
// its meaning or reading record.
func (e *Engine) allKanjiGuru(kanjiIDs []int) bool {
	for _, id := range kanjiIDs {
		meaning := models.ProgressKey{Type: models.TypeKanji, ID: id, Question: models.QuestionMeaning}
		reading := models.ProgressKey{Type: models.TypeKanji, ID: id, Question: models.QuestionReading}

		guru := false
		if rec, ok := e.records[meaning]; ok && rec.SRSStage >= models.StageGuru {
			guru = true
		}
		if rec, ok := e.records[reading]; ok && rec.SRSStage >= models.StageGuru {
			guru = true
		}
		if !guru {
			return false
		}
	}
	return true
}

// maybeAdvanceLevel fires the level progression gate: once at least 90%
// of the current level's radicals sit at Guru or above, the level
// counter advances and the new level's radicals and kanji are queued as
// lessons. Returns (0, nil) when the gate does not fire. Callers hold
// e.mu.
//
// Radical mastery is the sole input; kanji and vocabulary mastery never
// advance the level. Levels without radicals never fire the gate.
func (e *Engine) maybeAdvanceLevel() (int, []models.ProgressKey) {
	radicals := e.catalog.RadicalsAtLevel(e.currentLevel)
	if len(radicals) == 0 {
		return 0, nil
	}

	guru := 0
	for _, r := range radicals {
		key := models.ProgressKey{Type: models.TypeRadical, ID: r.ID, Question: models.QuestionMeaning}
		if rec, ok := e.records[key]; ok && rec.SRSStage >= models.StageGuru {
			guru++
		}
	}

	if float64(guru)/float64(len(radicals)) < 0.9 {
		return 0, nil
	}

	next := e.currentLevel + 1
	if next > e.catalog.MaxLevel() {
		return 0, nil
	}

	e.currentLevel = next
	e.persistLevel()

	var created []models.ProgressKey

	for _, r := range e.catalog.RadicalsAtLevel(next) {
		key := models.ProgressKey{Type: models.TypeRadical, ID: r.ID, Question: models.QuestionMeaning}
		if _, exists := e.records[key]; !exists {
			rec := models.NewLessonRecord(key)
			e.records[key] = rec
			e.persist(rec)
			created = append(created, key)
		}
	}

	for _, k := range e.catalog.KanjiAtLevel(next) {
		created = append(created, e.seedKanji(k)...)
	}

	return next, created
}
