package engine

import (
	"testing"

	"github.com/example/wanokuni/pkg/models"
)

func TestCheckAnswerMeanings(t *testing.T) {
	eng, _ := testEngine(t, testCatalog())

	cases := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"exact", "ground", true},
		{"case insensitive", "GROUND", true},
		{"surrounding whitespace", "  Ground  ", true},
		{"wrong meaning", "person", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := eng.CheckAnswer(models.TypeRadical, 1, models.QuestionMeaning, tc.answer)
			if got.Correct != tc.correct {
				t.Errorf("CheckAnswer(%q).Correct = %v, want %v", tc.answer, got.Correct, tc.correct)
			}
			if got.Hint != HintNone {
				t.Errorf("CheckAnswer(%q).Hint = %q, want none", tc.answer, got.Hint)
			}
		})
	}
}

func TestCheckAnswerAlternateMeanings(t *testing.T) {
	eng, _ := testEngine(t, testCatalog())

	for _, answer := range []string{"alone", "one person"} {
		got := eng.CheckAnswer(models.TypeVocabulary, 100, models.QuestionMeaning, answer)
		if !got.Correct {
			t.Errorf("CheckAnswer(%q) not accepted", answer)
		}
	}
}

func TestCheckAnswerUnknownItem(t *testing.T) {
	eng, _ := testEngine(t, testCatalog())

	got := eng.CheckAnswer(models.TypeKanji, 999, models.QuestionMeaning, "one")
	if got.Correct || got.Hint != HintNone {
		t.Errorf("unknown item produced %+v, want a plain miss", got)
	}
}

func TestCheckAnswerVocabularyReading(t *testing.T) {
	eng, _ := testEngine(t, testCatalog())

	if got := eng.CheckAnswer(models.TypeVocabulary, 100, models.QuestionReading, "ひとり"); !got.Correct {
		t.Errorf("valid reading rejected: %+v", got)
	}
	if got := eng.CheckAnswer(models.TypeVocabulary, 100, models.QuestionReading, "ひとつ"); got.Correct {
		t.Errorf("wrong reading accepted: %+v", got)
	}
}

func TestCheckKanjiReadingHints(t *testing.T) {
	eng, _ := testEngine(t, testCatalog())

	// Kanji 10 declares a primary on'yomi: the kun reading exists but is
	// steered back, unscored.
	got := eng.CheckAnswer(models.TypeKanji, 10, models.QuestionReading, "ひと")
	if got.Correct {
		t.Error("kun reading accepted where the on reading is primary")
	}
	if got.Hint != HintOnYomi {
		t.Errorf("Hint = %q, want %q", got.Hint, HintOnYomi)
	}

	if got := eng.CheckAnswer(models.TypeKanji, 10, models.QuestionReading, "いち"); !got.Correct {
		t.Errorf("primary on reading rejected: %+v", got)
	}

	// Kanji 11 declares a primary kun'yomi: the mirror case.
	got = eng.CheckAnswer(models.TypeKanji, 11, models.QuestionReading, "にん")
	if got.Correct {
		t.Error("on reading accepted where the kun reading is primary")
	}
	if got.Hint != HintKunYomi {
		t.Errorf("Hint = %q, want %q", got.Hint, HintKunYomi)
	}

	if got := eng.CheckAnswer(models.TypeKanji, 11, models.QuestionReading, "ひと"); !got.Correct {
		t.Errorf("primary kun reading rejected: %+v", got)
	}

	// A reading in neither system is a plain miss, never a hint.
	got = eng.CheckAnswer(models.TypeKanji, 10, models.QuestionReading, "みず")
	if got.Correct || got.Hint != HintNone {
		t.Errorf("invalid reading produced %+v, want a plain miss", got)
	}
}
