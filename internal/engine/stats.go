package engine

import (
	"sort"
	"time"

	"github.com/example/wanokuni/pkg/models"
)

// ReviewCount returns how many questions are due for review right now.
func (e *Engine) ReviewCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	n := 0
	for _, rec := range e.records {
		if rec.DueAt(now) {
			n++
		}
	}
	return n
}

// LessonCount returns how many questions are waiting in the lesson queue.
func (e *Engine) LessonCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, rec := range e.records {
		if rec.PendingLesson() {
			n++
		}
	}
	return n
}

// NextReviewIn returns the time until the earliest scheduled future
// review. ok is false when nothing is scheduled.
func (e *Engine) NextReviewIn() (d time.Duration, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var times []time.Time
	for _, rec := range e.records {
		if rec.NextReviewAt != nil && rec.NextReviewAt.After(now) {
			times = append(times, *rec.NextReviewAt)
		}
	}
	if len(times) == 0 {
		return 0, false
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times[0].Sub(now), true
}

// Stats returns the coarse stage-bucket breakdown over every record.
func (e *Engine) Stats() models.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	var s models.Stats
	for _, rec := range e.records {
		s.Total++
		switch stage := rec.SRSStage; {
		case stage >= 0 && stage <= 3:
			s.Apprentice++
		case stage >= 4 && stage <= 5:
			s.Guru++
		case stage == 6:
			s.Master++
		case stage == 7:
			s.Enlightened++
		case stage == 8:
			s.Burned++
		}
	}
	return s
}

// DetailedStats breaks every record down by exact stage and item type,
// and the learner's current level by stage group. Records whose item no
// longer exists in the catalog are skipped.
func (e *Engine) DetailedStats() models.DetailedStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	var d models.DetailedStats
	for key, rec := range e.records {
		level := e.catalog.ItemLevel(key.Type, key.ID)
		if level == 0 {
			continue
		}

		if level == e.currentLevel {
			var lc *models.LevelCounts
			switch key.Type {
			case models.TypeRadical:
				lc = &d.CurrentLevel.Radical
			case models.TypeKanji:
				lc = &d.CurrentLevel.Kanji
			case models.TypeVocabulary:
				lc = &d.CurrentLevel.Vocabulary
			}
			switch stage := rec.SRSStage; {
			case stage == models.StageLesson:
				lc.Lessons++
			case stage >= 0 && stage <= 3:
				lc.Apprentice++
			case stage >= 4 && stage <= 5:
				lc.Guru++
			case stage == 6:
				lc.Master++
			case stage == 7:
				lc.Enlightened++
			case stage == 8:
				lc.Burned++
			}
		}

		switch stage := rec.SRSStage; {
		case stage == models.StageLesson:
			d.ByStage.Lessons.Add(key.Type)
		case stage >= 0 && stage <= 3:
			d.ByStage.Apprentice[stage].Add(key.Type)
		case stage == 4 || stage == 5:
			d.ByStage.Guru[stage-4].Add(key.Type)
		case stage == 6:
			d.ByStage.Master.Add(key.Type)
		case stage == 7:
			d.ByStage.Enlightened.Add(key.Type)
		case stage == 8:
			d.ByStage.Burned.Add(key.Type)
		}
	}
	return d
}
