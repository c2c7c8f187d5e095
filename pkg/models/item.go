package models

// ItemType identifies the three kinds of curriculum items.
type ItemType string

const (
	TypeRadical    ItemType = "radical"
	TypeKanji      ItemType = "kanji"
	TypeVocabulary ItemType = "vocabulary"
)

// Valid reports whether t is one of the three known item types.
func (t ItemType) Valid() bool {
	switch t {
	case TypeRadical, TypeKanji, TypeVocabulary:
		return true
	}
	return false
}

// Radical is an atomic building block of kanji. Radicals are only ever
// tested on their meaning.
type Radical struct {
	ID        int      `json:"id" db:"id"`
	Level     int      `json:"level" db:"level"`
	Character string   `json:"character" db:"character"`
	Meanings  []string `json:"meanings"`
}

// Kanji is a character composed of radicals. Readings are split into on
// and kun lists; an optional primary reading marks the system the learner
// is steered toward.
type Kanji struct {
	ID                  int      `json:"id" db:"id"`
	Level               int      `json:"level" db:"level"`
	Character           string   `json:"character" db:"character"`
	Meanings            []string `json:"meanings"`
	OnReadings          []string `json:"on_readings"`
	KunReadings         []string `json:"kun_readings"`
	PrimaryOnReading    string   `json:"primary_on_reading" db:"primary_on_reading"`
	PrimaryKunReading   string   `json:"primary_kun_reading" db:"primary_kun_reading"`
	ComponentRadicalIDs []int    `json:"component_radical_ids"`
}

// HasReadings reports whether the kanji carries any reading at all. Some
// radical-like kanji in uploaded data sets have none and get no reading
// question.
func (k *Kanji) HasReadings() bool {
	return len(k.OnReadings) > 0 || len(k.KunReadings) > 0
}

// Vocabulary is a word composed of kanji. Vocabulary readings are a flat
// list with no on/kun distinction.
type Vocabulary struct {
	ID                int      `json:"id" db:"id"`
	Level             int      `json:"level" db:"level"`
	Characters        string   `json:"characters" db:"characters"`
	Meanings          []string `json:"meanings"`
	Readings          []string `json:"readings"`
	ComponentKanjiIDs []int    `json:"component_kanji_ids"`
}
