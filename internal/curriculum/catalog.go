// Package curriculum holds the read-only catalog of learnable items and
// the dependency relations between them.
package curriculum

import (
	"strings"

	"github.com/example/wanokuni/pkg/models"
)

// Catalog is an in-memory index over the full curriculum. It is built
// once from uploaded data and never mutated afterwards, so it is safe to
// share across the engine and its callers.
type Catalog struct {
	radicals   []models.Radical
	kanji      []models.Kanji
	vocabulary []models.Vocabulary

	radicalByID map[int]*models.Radical
	kanjiByID   map[int]*models.Kanji
	vocabByID   map[int]*models.Vocabulary

	maxLevel int
}

// New indexes the given item sets.
func New(radicals []models.Radical, kanji []models.Kanji, vocabulary []models.Vocabulary) *Catalog {
	c := &Catalog{
		radicals:    radicals,
		kanji:       kanji,
		vocabulary:  vocabulary,
		radicalByID: make(map[int]*models.Radical, len(radicals)),
		kanjiByID:   make(map[int]*models.Kanji, len(kanji)),
		vocabByID:   make(map[int]*models.Vocabulary, len(vocabulary)),
	}

	for i := range c.radicals {
		r := &c.radicals[i]
		c.radicalByID[r.ID] = r
		if r.Level > c.maxLevel {
			c.maxLevel = r.Level
		}
	}
	for i := range c.kanji {
		k := &c.kanji[i]
		c.kanjiByID[k.ID] = k
		if k.Level > c.maxLevel {
			c.maxLevel = k.Level
		}
	}
	for i := range c.vocabulary {
		v := &c.vocabulary[i]
		c.vocabByID[v.ID] = v
		if v.Level > c.maxLevel {
			c.maxLevel = v.Level
		}
	}

	return c
}

// Radical returns the radical with the given id, or nil.
func (c *Catalog) Radical(id int) *models.Radical { return c.radicalByID[id] }

// Kanji returns the kanji with the given id, or nil.
func (c *Catalog) Kanji(id int) *models.Kanji { return c.kanjiByID[id] }

// Vocabulary returns the vocabulary item with the given id, or nil.
func (c *Catalog) Vocabulary(id int) *models.Vocabulary { return c.vocabByID[id] }

// RadicalsAtLevel returns every radical at the given level.
func (c *Catalog) RadicalsAtLevel(level int) []*models.Radical {
	var out []*models.Radical
	for i := range c.radicals {
		if c.radicals[i].Level == level {
			out = append(out, &c.radicals[i])
		}
	}
	return out
}

// KanjiAtLevel returns every kanji at the given level.
func (c *Catalog) KanjiAtLevel(level int) []*models.Kanji {
	var out []*models.Kanji
	for i := range c.kanji {
		if c.kanji[i].Level == level {
			out = append(out, &c.kanji[i])
		}
	}
	return out
}

// KanjiUsingRadical returns every kanji that lists the radical as a
// component.
func (c *Catalog) KanjiUsingRadical(radicalID int) []*models.Kanji {
	var out []*models.Kanji
	for i := range c.kanji {
		k := &c.kanji[i]
		for _, id := range k.ComponentRadicalIDs {
			if id == radicalID {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

// VocabularyUsingKanji returns every vocabulary item that depends on the
// kanji, either through its explicit component list or, for data sets
// without component links, because the kanji's character appears in the
// word.
func (c *Catalog) VocabularyUsingKanji(kanjiID int) []*models.Vocabulary {
	k := c.kanjiByID[kanjiID]
	var out []*models.Vocabulary
	for i := range c.vocabulary {
		v := &c.vocabulary[i]
		if containsID(v.ComponentKanjiIDs, kanjiID) {
			out = append(out, v)
			continue
		}
		if len(v.ComponentKanjiIDs) == 0 && k != nil && k.Character != "" &&
			strings.Contains(v.Characters, k.Character) {
			out = append(out, v)
		}
	}
	return out
}

// MaxLevel returns the highest level any item is assigned to.
func (c *Catalog) MaxLevel() int { return c.maxLevel }

// Counts returns the number of items per type.
func (c *Catalog) Counts() (radicals, kanji, vocabulary int) {
	return len(c.radicals), len(c.kanji), len(c.vocabulary)
}

// ItemLevel returns the level of the identified item, or 0 when the id is
// unknown.
func (c *Catalog) ItemLevel(t models.ItemType, id int) int {
	switch t {
	case models.TypeRadical:
		if r := c.radicalByID[id]; r != nil {
			return r.Level
		}
	case models.TypeKanji:
		if k := c.kanjiByID[id]; k != nil {
			return k.Level
		}
	case models.TypeVocabulary:
		if v := c.vocabByID[id]; v != nil {
			return v.Level
		}
	}
	return 0
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
