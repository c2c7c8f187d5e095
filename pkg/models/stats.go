package models

// Stats is the coarse stage-bucket breakdown over every progress record.
type Stats struct {
	Apprentice  int `json:"apprentice"`
	Guru        int `json:"guru"`
	Master      int `json:"master"`
	Enlightened int `json:"enlightened"`
	Burned      int `json:"burned"`
	Total       int `json:"total"`
}

// TypeCounts holds one counter per item type plus their sum.
type TypeCounts struct {
	Radical    int `json:"radical"`
	Kanji      int `json:"kanji"`
	Vocabulary int `json:"vocabulary"`
	Total      int `json:"total"`
}

// Add increments the counter for the given type.
func (c *TypeCounts) Add(t ItemType) {
	switch t {
	case TypeRadical:
		c.Radical++
	case TypeKanji:
		c.Kanji++
	case TypeVocabulary:
		c.Vocabulary++
	}
	c.Total++
}

// StageBuckets breaks every record down by exact stage and item type.
type StageBuckets struct {
	Lessons     TypeCounts    `json:"lessons"`
	Apprentice  [4]TypeCounts `json:"apprentice"` // stages 0-3
	Guru        [2]TypeCounts `json:"guru"`       // stages 4-5
	Master      TypeCounts    `json:"master"`
	Enlightened TypeCounts    `json:"enlightened"`
	Burned      TypeCounts    `json:"burned"`
}

// LevelCounts is the per-type breakdown of the learner's current level.
type LevelCounts struct {
	Lessons     int `json:"lessons"`
	Apprentice  int `json:"apprentice"`
	Guru        int `json:"guru"`
	Master      int `json:"master"`
	Enlightened int `json:"enlightened"`
	Burned      int `json:"burned"`
}

// DetailedStats combines the stage breakdown with the current-level view.
type DetailedStats struct {
	ByStage      StageBuckets `json:"by_stage"`
	CurrentLevel struct {
		Radical    LevelCounts `json:"radical"`
		Kanji      LevelCounts `json:"kanji"`
		Vocabulary LevelCounts `json:"vocabulary"`
	} `json:"current_level"`
}
