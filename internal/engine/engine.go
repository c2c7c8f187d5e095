// Package engine implements the spaced-repetition scheduling core: it
// owns every progress record and the learner's current level, applies
// stage transitions on submitted answers, unlocks dependent items when
// their prerequisites reach Guru, and advances the curriculum level.
//
// The engine is single-writer: one answer is processed at a time,
// in-memory state is authoritative during a session, and the backing
// store is written best-effort after each mutation.
package engine

import (
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/example/wanokuni/internal/curriculum"
	"github.com/example/wanokuni/internal/srs"
	"github.com/example/wanokuni/pkg/models"
)

// ProgressStore is the durable mapping behind the engine. The engine
// reads it once at startup and writes through on every mutation; it does
// not depend on writes succeeding to compute correct in-memory results.
type ProgressStore interface {
	Get(key models.ProgressKey) (*models.ProgressRecord, error)
	Set(record *models.ProgressRecord) error
	GetAll() (map[models.ProgressKey]*models.ProgressRecord, error)
	CurrentLevel() (int, error)
	SetCurrentLevel(level int) error
}

// Config carries the engine's collaborators. Catalog and Store are
// required; Now defaults to time.Now.
type Config struct {
	Catalog *curriculum.Catalog
	Store   ProgressStore
	Now     func() time.Time
}

// Engine is the scheduling aggregate. All exported methods are safe for
// use from the bot and scheduler goroutines.
type Engine struct {
	mu      sync.Mutex
	catalog *curriculum.Catalog
	store   ProgressStore
	now     func() time.Time

	records      map[models.ProgressKey]*models.ProgressRecord
	currentLevel int
}

// SubmitOptions modifies how an answer is scored.
type SubmitOptions struct {
	// PartialCorrect marks a wrong-then-right-on-retry answer: the record
	// advances by exactly one stage, the miss is counted and the streak
	// reset.
	PartialCorrect bool
}

// SubmitResult reports what a submitted answer changed.
type SubmitResult struct {
	Record *models.ProgressRecord
	// Unlocked lists progress records created because this answer pushed
	// the item into Guru.
	Unlocked []models.ProgressKey
	// NewLevel is non-zero when the answer triggered a level advance.
	NewLevel int
}

// New loads all progress state from the store and bootstraps a fresh
// learner (level 1, all level-1 radicals queued as lessons) when the
// store is empty.
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("engine: catalog is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("engine: store is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	e := &Engine{
		catalog:      cfg.Catalog,
		store:        cfg.Store,
		now:          now,
		currentLevel: 1,
	}

	records, err := cfg.Store.GetAll()
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = make(map[models.ProgressKey]*models.ProgressRecord)
	}
	e.records = records

	level, err := cfg.Store.CurrentLevel()
	if err != nil {
		return nil, err
	}
	if level > 0 {
		e.currentLevel = level
	}

	if len(e.records) == 0 {
		e.bootstrap()
	}

	return e, nil
}

// bootstrap seeds lesson records for every level-1 radical.
func (e *Engine) bootstrap() {
	for _, r := range e.catalog.RadicalsAtLevel(1) {
		key := models.ProgressKey{Type: models.TypeRadical, ID: r.ID, Question: models.QuestionMeaning}
		rec := models.NewLessonRecord(key)
		e.records[key] = rec
		e.persist(rec)
	}
}

// SubmitAnswer applies one scored answer to the identified record and
// runs unlock resolution and the level gate when the item crosses into
// Guru. An unknown key is a no-op and returns an empty result; this
// guards against races between the UI and unlock timing.
func (e *Engine) SubmitAnswer(key models.ProgressKey, correct bool, opts *SubmitOptions) SubmitResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.records[key]
	if !ok {
		return SubmitResult{}
	}

	now := e.now()
	prevStage := rec.SRSStage

	partial := opts != nil && opts.PartialCorrect
	var tr srs.Transition
	if partial {
		tr = srs.ComputePartial(prevStage, now)
		rec.IncorrectCount++
		rec.CorrectStreak = 0
	} else {
		tr = srs.Compute(prevStage, correct, now)
		if correct {
			rec.CorrectStreak++
		} else {
			rec.IncorrectCount++
			rec.CorrectStreak = 0
		}
	}

	rec.SRSStage = tr.NextStage
	rec.NextReviewAt = tr.NextReviewAt
	e.persist(rec)

	result := SubmitResult{Record: rec}

	// A record can reach Guru through a full-correct or a partial
	// advance; either way its dependents become eligible exactly once.
	if (correct || partial) && rec.SRSStage >= models.StageGuru && prevStage < models.StageGuru {
		result.Unlocked = e.resolveUnlocks(key)
		if key.Type == models.TypeRadical {
			if newLevel, unlocked := e.maybeAdvanceLevel(); newLevel > 0 {
				result.NewLevel = newLevel
				result.Unlocked = append(result.Unlocked, unlocked...)
			}
		}
	}

	return result
}

// CompleteLesson moves a pending-lesson record to Apprentice I and
// schedules its first review. It is an unconditional state seed, not a
// scored answer; records already out of the lesson state are left alone.
func (e *Engine) CompleteLesson(key models.ProgressKey) *models.ProgressRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.records[key]
	if !ok || rec.SRSStage != models.StageLesson {
		return rec
	}

	at := e.now().Add(srs.Stages[0].Interval)
	rec.SRSStage = 0
	rec.NextReviewAt = &at
	rec.LessonCompleted = true
	e.persist(rec)
	return rec
}

// CurrentLevel returns the learner's unlocked curriculum level.
func (e *Engine) CurrentLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLevel
}

// Record returns a copy of the record for the given key.
func (e *Engine) Record(key models.ProgressKey) (models.ProgressRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.records[key]
	if !ok {
		return models.ProgressRecord{}, false
	}
	return *rec, true
}

// DueRecords returns every reviewable record whose scheduled time has
// passed, in stable key order so callers can shuffle reproducibly.
func (e *Engine) DueRecords() []models.ProgressRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var out []models.ProgressRecord
	for _, rec := range e.records {
		if rec.DueAt(now) {
			out = append(out, *rec)
		}
	}
	sortRecords(out)
	return out
}

// PendingLessonRecords returns every record still waiting in the lesson
// queue, in stable key order.
func (e *Engine) PendingLessonRecords() []models.ProgressRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.ProgressRecord
	for _, rec := range e.records {
		if rec.PendingLesson() {
			out = append(out, *rec)
		}
	}
	sortRecords(out)
	return out
}

// Catalog exposes the read-only curriculum the engine schedules over.
func (e *Engine) Catalog() *curriculum.Catalog { return e.catalog }

// persist writes through to the store. Failures are logged and otherwise
// ignored: the in-memory state stays authoritative for the session and
// the next successful write catches up.
func (e *Engine) persist(rec *models.ProgressRecord) {
	if err := e.store.Set(rec); err != nil {
		log.Printf("engine: persisting %s failed: %v", rec.Key, err)
	}
}

func (e *Engine) persistLevel() {
	if err := e.store.SetCurrentLevel(e.currentLevel); err != nil {
		log.Printf("engine: persisting level %d failed: %v", e.currentLevel, err)
	}
}

func sortRecords(recs []models.ProgressRecord) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i].Key, recs[j].Key
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Question < b.Question
	})
}
