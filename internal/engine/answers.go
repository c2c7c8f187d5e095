package engine

import (
	"strings"

	"github.com/example/wanokuni/pkg/models"
)

// Hint nudges the learner toward the reading system an item primarily
// teaches, without scoring the attempt as a failure.
type Hint string

const (
	HintNone    Hint = ""
	HintOnYomi  Hint = "on_yomi"
	HintKunYomi Hint = "kun_yomi"
)

// CheckResult is the verdict on a submitted answer. When Hint is set the
// attempt must be re-prompted, not scored.
type CheckResult struct {
	Correct bool
	Hint    Hint
}

// CheckAnswer validates a submission against the identified item.
// Meanings match case-insensitively after trimming; readings match
// exactly after the same normalization. Checking never fails: unknown
// items and empty submissions simply do not match.
func (e *Engine) CheckAnswer(itemType models.ItemType, itemID int, question models.QuestionType, answer string) CheckResult {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	if normalized == "" {
		return CheckResult{}
	}

	switch itemType {
	case models.TypeRadical:
		r := e.catalog.Radical(itemID)
		if r == nil {
			return CheckResult{}
		}
		return CheckResult{Correct: matchesAny(r.Meanings, normalized)}

	case models.TypeKanji:
		k := e.catalog.Kanji(itemID)
		if k == nil {
			return CheckResult{}
		}
		if question == models.QuestionReading {
			return checkKanjiReading(k, normalized)
		}
		return CheckResult{Correct: matchesAny(k.Meanings, normalized)}

	case models.TypeVocabulary:
		v := e.catalog.Vocabulary(itemID)
		if v == nil {
			return CheckResult{}
		}
		if question == models.QuestionReading {
			return CheckResult{Correct: matchesAny(v.Readings, normalized)}
		}
		return CheckResult{Correct: matchesAny(v.Meanings, normalized)}
	}

	return CheckResult{}
}

// checkKanjiReading applies the dual reading-system rules. Any on or kun
// reading is a candidate match; when the item declares a primary reading
// for one system, a reading valid only in the other system is rejected
// with a hint steering the learner to the expected system.
func checkKanjiReading(k *models.Kanji, answer string) CheckResult {
	isOn := matchesAny(k.OnReadings, answer)
	isKun := matchesAny(k.KunReadings, answer)

	if !isOn && !isKun {
		return CheckResult{}
	}

	if strings.TrimSpace(k.PrimaryOnReading) != "" && isKun && !isOn {
		return CheckResult{Hint: HintOnYomi}
	}
	if strings.TrimSpace(k.PrimaryKunReading) != "" && isOn && !isKun {
		return CheckResult{Hint: HintKunYomi}
	}

	return CheckResult{Correct: true}
}

func matchesAny(accepted []string, answer string) bool {
	for _, a := range accepted {
		if a == "" {
			continue
		}
		if strings.ToLower(strings.TrimSpace(a)) == answer {
			return true
		}
	}
	return false
}
