package database

import (
	"reflect"
	"testing"

	"github.com/example/wanokuni/pkg/models"
)

func TestCurriculumRoundTrip(t *testing.T) {
	openTestDB(t)
	repo := NewCurriculumRepository()

	rad := &models.Radical{ID: 1, Level: 1, Character: "一", Meanings: []string{"ground"}}
	if err := repo.UpsertRadical(rad); err != nil {
		t.Fatalf("UpsertRadical: %v", err)
	}

	k := &models.Kanji{
		ID: 10, Level: 1, Character: "一",
		Meanings:            []string{"one"},
		OnReadings:          []string{"いち", "いつ"},
		KunReadings:         []string{"ひと"},
		PrimaryOnReading:    "いち",
		ComponentRadicalIDs: []int{1},
	}
	if err := repo.UpsertKanji(k); err != nil {
		t.Fatalf("UpsertKanji: %v", err)
	}

	v := &models.Vocabulary{
		ID: 100, Level: 1, Characters: "一人",
		Meanings:          []string{"alone", "one person"},
		Readings:          []string{"ひとり"},
		ComponentKanjiIDs: []int{10, 11},
	}
	if err := repo.UpsertVocabulary(v); err != nil {
		t.Fatalf("UpsertVocabulary: %v", err)
	}

	radicals, err := repo.GetAllRadicals()
	if err != nil {
		t.Fatalf("GetAllRadicals: %v", err)
	}
	if len(radicals) != 1 || !reflect.DeepEqual(radicals[0], *rad) {
		t.Errorf("GetAllRadicals = %+v, want [%+v]", radicals, *rad)
	}

	kanji, err := repo.GetAllKanji()
	if err != nil {
		t.Fatalf("GetAllKanji: %v", err)
	}
	if len(kanji) != 1 || !reflect.DeepEqual(kanji[0], *k) {
		t.Errorf("GetAllKanji = %+v, want [%+v]", kanji, *k)
	}

	vocabulary, err := repo.GetAllVocabulary()
	if err != nil {
		t.Fatalf("GetAllVocabulary: %v", err)
	}
	if len(vocabulary) != 1 || !reflect.DeepEqual(vocabulary[0], *v) {
		t.Errorf("GetAllVocabulary = %+v, want [%+v]", vocabulary, *v)
	}
}

func TestCurriculumUpsertReplaces(t *testing.T) {
	openTestDB(t)
	repo := NewCurriculumRepository()

	rad := &models.Radical{ID: 1, Level: 1, Character: "一", Meanings: []string{"ground"}}
	if err := repo.UpsertRadical(rad); err != nil {
		t.Fatalf("UpsertRadical: %v", err)
	}

	rad.Level = 2
	rad.Meanings = []string{"ground", "floor"}
	if err := repo.UpsertRadical(rad); err != nil {
		t.Fatalf("UpsertRadical: %v", err)
	}

	radicals, err := repo.GetAllRadicals()
	if err != nil {
		t.Fatalf("GetAllRadicals: %v", err)
	}
	if len(radicals) != 1 {
		t.Fatalf("GetAllRadicals = %d rows after re-import, want 1", len(radicals))
	}
	if radicals[0].Level != 2 || len(radicals[0].Meanings) != 2 {
		t.Errorf("GetAllRadicals = %+v, want the updated row", radicals[0])
	}
}

func TestCurriculumCounts(t *testing.T) {
	openTestDB(t)
	repo := NewCurriculumRepository()

	for i := 1; i <= 3; i++ {
		rad := &models.Radical{ID: i, Level: 1, Character: "一", Meanings: []string{"r"}}
		if err := repo.UpsertRadical(rad); err != nil {
			t.Fatalf("UpsertRadical: %v", err)
		}
	}
	k := &models.Kanji{ID: 10, Level: 1, Character: "一", Meanings: []string{"one"}}
	if err := repo.UpsertKanji(k); err != nil {
		t.Fatalf("UpsertKanji: %v", err)
	}

	radicals, kanji, vocabulary, err := repo.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if radicals != 3 || kanji != 1 || vocabulary != 0 {
		t.Errorf("Counts = (%d, %d, %d), want (3, 1, 0)", radicals, kanji, vocabulary)
	}
}
