package engine

import (
	"testing"
	"time"

	"github.com/example/wanokuni/internal/curriculum"
	"github.com/example/wanokuni/pkg/models"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// testCatalog builds a two-level curriculum:
//
//	level 1: radicals 1, 2; kanji 10 (needs radical 1), kanji 11 (needs 1+2)
//	level 2: radical 3; kanji 12 (needs radical 3)
//	vocabulary 100 (needs kanji 10+11), 101 (substring match on 一)
func testCatalog() *curriculum.Catalog {
	radicals := []models.Radical{
		{ID: 1, Level: 1, Character: "一", Meanings: []string{"ground"}},
		{ID: 2, Level: 1, Character: "人", Meanings: []string{"person"}},
		{ID: 3, Level: 2, Character: "水", Meanings: []string{"water"}},
	}
	kanji := []models.Kanji{
		{
			ID: 10, Level: 1, Character: "一",
			Meanings:            []string{"one"},
			OnReadings:          []string{"いち"},
			KunReadings:         []string{"ひと"},
			PrimaryOnReading:    "いち",
			ComponentRadicalIDs: []int{1},
		},
		{
			ID: 11, Level: 1, Character: "人",
			Meanings:            []string{"person"},
			OnReadings:          []string{"にん", "じん"},
			KunReadings:         []string{"ひと"},
			PrimaryKunReading:   "ひと",
			ComponentRadicalIDs: []int{1, 2},
		},
		{
			ID: 12, Level: 2, Character: "水",
			Meanings:            []string{"water"},
			OnReadings:          []string{"すい"},
			KunReadings:         []string{"みず"},
			PrimaryKunReading:   "みず",
			ComponentRadicalIDs: []int{3},
		},
	}
	vocabulary := []models.Vocabulary{
		{
			ID: 100, Level: 1, Characters: "一人",
			Meanings:          []string{"alone", "one person"},
			Readings:          []string{"ひとり"},
			ComponentKanjiIDs: []int{10, 11},
		},
		{
			ID: 101, Level: 1, Characters: "一つ",
			Meanings: []string{"one thing"},
			Readings: []string{"ひとつ"},
		},
	}
	return curriculum.New(radicals, kanji, vocabulary)
}

// testEngine builds an engine over a fresh memory store with a movable
// clock.
func testEngine(t *testing.T, catalog *curriculum.Catalog) (*Engine, *time.Time) {
	t.Helper()
	clock := t0
	eng, err := New(Config{
		Catalog: catalog,
		Store:   NewMemoryStore(),
		Now:     func() time.Time { return clock },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng, &clock
}

func radicalKey(id int) models.ProgressKey {
	return models.ProgressKey{Type: models.TypeRadical, ID: id, Question: models.QuestionMeaning}
}

func kanjiKey(id int, q models.QuestionType) models.ProgressKey {
	return models.ProgressKey{Type: models.TypeKanji, ID: id, Question: q}
}

func vocabKey(id int, q models.QuestionType) models.ProgressKey {
	return models.ProgressKey{Type: models.TypeVocabulary, ID: id, Question: q}
}

// guruRadical drives a completed lesson record through four correct
// reviews, returning the final submit result.
func guruRadical(t *testing.T, eng *Engine, clock *time.Time, id int) SubmitResult {
	t.Helper()
	key := radicalKey(id)
	var result SubmitResult
	for i := 0; i < 4; i++ {
		rec, ok := eng.Record(key)
		if !ok {
			t.Fatalf("record %s missing", key)
		}
		if rec.NextReviewAt == nil {
			t.Fatalf("record %s has no scheduled review at stage %d", key, rec.SRSStage)
		}
		*clock = rec.NextReviewAt.Add(time.Minute)
		result = eng.SubmitAnswer(key, true, nil)
	}
	return result
}

func TestNewEngineBootstrapsFirstLevel(t *testing.T) {
	eng, _ := testEngine(t, testCatalog())

	if got := eng.CurrentLevel(); got != 1 {
		t.Fatalf("CurrentLevel = %d, want 1", got)
	}

	pending := eng.PendingLessonRecords()
	if len(pending) != 2 {
		t.Fatalf("got %d pending lessons, want 2", len(pending))
	}
	for _, rec := range pending {
		if rec.Key.Type != models.TypeRadical {
			t.Errorf("bootstrap seeded %s, want only radicals", rec.Key)
		}
		if rec.SRSStage != models.StageLesson {
			t.Errorf("record %s at stage %d, want %d", rec.Key, rec.SRSStage, models.StageLesson)
		}
	}

	if due := eng.DueRecords(); len(due) != 0 {
		t.Errorf("got %d due records on a fresh engine, want 0", len(due))
	}
}

func TestNewEngineRestoresExistingState(t *testing.T) {
	store := NewMemoryStore()
	rec := models.NewLessonRecord(radicalKey(1))
	rec.SRSStage = 5
	at := t0.Add(-time.Hour)
	rec.NextReviewAt = &at
	if err := store.Set(rec); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.SetCurrentLevel(2); err != nil {
		t.Fatalf("SetCurrentLevel: %v", err)
	}

	eng, err := New(Config{
		Catalog: testCatalog(),
		Store:   store,
		Now:     func() time.Time { return t0 },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := eng.CurrentLevel(); got != 2 {
		t.Errorf("CurrentLevel = %d, want 2", got)
	}
	// A non-empty store must not be re-bootstrapped.
	if pending := eng.PendingLessonRecords(); len(pending) != 0 {
		t.Errorf("got %d pending lessons, want 0", len(pending))
	}
	if due := eng.DueRecords(); len(due) != 1 {
		t.Errorf("got %d due records, want 1", len(due))
	}
}

func TestCompleteLessonSchedulesFirstReview(t *testing.T) {
	eng, clock := testEngine(t, testCatalog())
	key := radicalKey(1)

	rec := eng.CompleteLesson(key)
	if rec == nil {
		t.Fatal("CompleteLesson returned nil")
	}
	if rec.SRSStage != 0 {
		t.Errorf("stage = %d, want 0", rec.SRSStage)
	}
	if !rec.LessonCompleted {
		t.Error("LessonCompleted not set")
	}
	want := t0.Add(4 * time.Hour)
	if rec.NextReviewAt == nil || !rec.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", rec.NextReviewAt, want)
	}

	// Not due until the interval elapses.
	if due := eng.DueRecords(); len(due) != 0 {
		t.Errorf("got %d due records before the interval, want 0", len(due))
	}
	*clock = t0.Add(4*time.Hour + time.Minute)
	if due := eng.DueRecords(); len(due) != 1 {
		t.Errorf("got %d due records after the interval, want 1", len(due))
	}

	// Completing again is a no-op.
	again := eng.CompleteLesson(key)
	if again.SRSStage != 0 || !again.NextReviewAt.Equal(want) {
		t.Errorf("second CompleteLesson changed the record: stage %d at %v", again.SRSStage, again.NextReviewAt)
	}
}

func TestCorrectClimbUnlocksDependents(t *testing.T) {
	eng, clock := testEngine(t, testCatalog())
	eng.CompleteLesson(radicalKey(1))
	eng.CompleteLesson(radicalKey(2))

	result := guruRadical(t, eng, clock, 1)

	rec, _ := eng.Record(radicalKey(1))
	if rec.SRSStage != models.StageGuru {
		t.Fatalf("stage = %d after four correct reviews, want %d", rec.SRSStage, models.StageGuru)
	}
	if rec.CorrectStreak != 4 {
		t.Errorf("CorrectStreak = %d, want 4", rec.CorrectStreak)
	}

	// Kanji 10 depends only on radical 1 and unlocks with both question
	// records; kanji 11 still waits on radical 2.
	wantUnlocked := map[models.ProgressKey]bool{
		kanjiKey(10, models.QuestionMeaning): true,
		kanjiKey(10, models.QuestionReading): true,
	}
	if len(result.Unlocked) != len(wantUnlocked) {
		t.Fatalf("Unlocked = %v, want keys of kanji 10 only", result.Unlocked)
	}
	for _, key := range result.Unlocked {
		if !wantUnlocked[key] {
			t.Errorf("unexpected unlock %s", key)
		}
	}
	if _, ok := eng.Record(kanjiKey(11, models.QuestionMeaning)); ok {
		t.Error("kanji 11 unlocked before all its radicals reached Guru")
	}
	if result.NewLevel != 0 {
		t.Errorf("NewLevel = %d, want 0 while radical 2 is below Guru", result.NewLevel)
	}
}

func TestLevelAdvanceSeedsNextLevel(t *testing.T) {
	eng, clock := testEngine(t, testCatalog())
	eng.CompleteLesson(radicalKey(1))
	eng.CompleteLesson(radicalKey(2))

	guruRadical(t, eng, clock, 1)
	result := guruRadical(t, eng, clock, 2)

	if result.NewLevel != 2 {
		t.Fatalf("NewLevel = %d, want 2", result.NewLevel)
	}
	if got := eng.CurrentLevel(); got != 2 {
		t.Errorf("CurrentLevel = %d, want 2", got)
	}

	// The advance queues every item on the new level, kanji included.
	if _, ok := eng.Record(radicalKey(3)); !ok {
		t.Error("level-2 radical not seeded on level advance")
	}
	for _, q := range []models.QuestionType{models.QuestionMeaning, models.QuestionReading} {
		rec, ok := eng.Record(kanjiKey(12, q))
		if !ok {
			t.Errorf("level-2 kanji %s record not seeded on level advance", q)
			continue
		}
		if rec.SRSStage != models.StageLesson {
			t.Errorf("level-2 kanji %s record at stage %d, want %d", q, rec.SRSStage, models.StageLesson)
		}
	}

	// Kanji 11 needed both level-1 radicals and unlocks with this answer.
	if _, ok := eng.Record(kanjiKey(11, models.QuestionMeaning)); !ok {
		t.Error("kanji 11 not unlocked once both radicals reached Guru")
	}
}

func TestLevelGateRequiresNinetyPercent(t *testing.T) {
	radicals := make([]models.Radical, 0, 11)
	for i := 1; i <= 10; i++ {
		radicals = append(radicals, models.Radical{ID: i, Level: 1, Character: "一", Meanings: []string{"r"}})
	}
	radicals = append(radicals, models.Radical{ID: 11, Level: 2, Character: "水", Meanings: []string{"water"}})
	catalog := curriculum.New(radicals, nil, nil)

	eng, clock := testEngine(t, catalog)
	for i := 1; i <= 10; i++ {
		eng.CompleteLesson(radicalKey(i))
	}

	// Eight Gurus out of ten is below the gate.
	var result SubmitResult
	for i := 1; i <= 8; i++ {
		result = guruRadical(t, eng, clock, i)
	}
	if result.NewLevel != 0 {
		t.Fatalf("gate fired at 8/10 radicals, NewLevel = %d", result.NewLevel)
	}

	// The ninth Guru reaches exactly 90%.
	result = guruRadical(t, eng, clock, 9)
	if result.NewLevel != 2 {
		t.Fatalf("NewLevel = %d at 9/10 radicals, want 2", result.NewLevel)
	}
	if _, ok := eng.Record(radicalKey(11)); !ok {
		t.Error("level-2 radical not seeded")
	}
}

func TestLevelGateStopsAtMaxLevel(t *testing.T) {
	catalog := curriculum.New([]models.Radical{
		{ID: 1, Level: 1, Character: "一", Meanings: []string{"ground"}},
	}, nil, nil)

	eng, clock := testEngine(t, catalog)
	eng.CompleteLesson(radicalKey(1))

	result := guruRadical(t, eng, clock, 1)
	if result.NewLevel != 0 {
		t.Errorf("NewLevel = %d past the last level, want 0", result.NewLevel)
	}
	if got := eng.CurrentLevel(); got != 1 {
		t.Errorf("CurrentLevel = %d, want 1", got)
	}
}

func TestLevelGateSkipsRadicalFreeLevel(t *testing.T) {
	// Level 2 has no radicals at all; a Guru crossing while on it must
	// never fire the gate, even though levels beyond it exist.
	catalog := curriculum.New([]models.Radical{
		{ID: 1, Level: 1, Character: "一", Meanings: []string{"ground"}},
		{ID: 2, Level: 3, Character: "水", Meanings: []string{"water"}},
	}, nil, nil)

	store := NewMemoryStore()
	rec := models.NewLessonRecord(radicalKey(1))
	rec.SRSStage = 3
	at := t0.Add(-time.Hour)
	rec.NextReviewAt = &at
	if err := store.Set(rec); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.SetCurrentLevel(2); err != nil {
		t.Fatalf("SetCurrentLevel: %v", err)
	}

	eng, err := New(Config{
		Catalog: catalog,
		Store:   store,
		Now:     func() time.Time { return t0 },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := eng.SubmitAnswer(radicalKey(1), true, nil)
	if result.Record.SRSStage != models.StageGuru {
		t.Fatalf("stage = %d, want %d", result.Record.SRSStage, models.StageGuru)
	}
	if result.NewLevel != 0 {
		t.Errorf("NewLevel = %d on a radical-free level, want 0", result.NewLevel)
	}
	if got := eng.CurrentLevel(); got != 2 {
		t.Errorf("CurrentLevel = %d, want 2", got)
	}
}

func TestIncorrectAnswerDemotes(t *testing.T) {
	cases := []struct {
		name  string
		stage int
		want  int
	}{
		{"apprentice resets", 2, 0},
		{"guru drops two", 5, 3},
		{"enlightened drops two", 7, 5},
		{"burned reopens", 8, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore()
			rec := models.NewLessonRecord(radicalKey(1))
			rec.SRSStage = tc.stage
			rec.CorrectStreak = 3
			at := t0.Add(-time.Hour)
			rec.NextReviewAt = &at
			if err := store.Set(rec); err != nil {
				t.Fatalf("Set: %v", err)
			}

			eng, err := New(Config{
				Catalog: testCatalog(),
				Store:   store,
				Now:     func() time.Time { return t0 },
			})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			result := eng.SubmitAnswer(radicalKey(1), false, nil)
			if result.Record.SRSStage != tc.want {
				t.Errorf("stage = %d, want %d", result.Record.SRSStage, tc.want)
			}
			if result.Record.IncorrectCount != 1 {
				t.Errorf("IncorrectCount = %d, want 1", result.Record.IncorrectCount)
			}
			if result.Record.CorrectStreak != 0 {
				t.Errorf("CorrectStreak = %d, want 0", result.Record.CorrectStreak)
			}
			if result.Record.NextReviewAt == nil {
				t.Error("demoted record has no next review")
			}
			if len(result.Unlocked) != 0 || result.NewLevel != 0 {
				t.Error("incorrect answer must not unlock or advance")
			}
		})
	}
}

func TestPartialAdvanceCrossingGuruUnlocks(t *testing.T) {
	store := NewMemoryStore()
	rec := models.NewLessonRecord(radicalKey(1))
	rec.SRSStage = 3
	at := t0.Add(-time.Hour)
	rec.NextReviewAt = &at
	if err := store.Set(rec); err != nil {
		t.Fatalf("Set: %v", err)
	}

	eng, err := New(Config{
		Catalog: testCatalog(),
		Store:   store,
		Now:     func() time.Time { return t0 },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := eng.SubmitAnswer(radicalKey(1), false, &SubmitOptions{PartialCorrect: true})
	if result.Record.SRSStage != models.StageGuru {
		t.Fatalf("stage = %d, want %d", result.Record.SRSStage, models.StageGuru)
	}
	if result.Record.IncorrectCount != 1 {
		t.Errorf("IncorrectCount = %d, want 1", result.Record.IncorrectCount)
	}
	// The partial advance into Guru still unlocks kanji 10.
	if len(result.Unlocked) == 0 {
		t.Error("partial advance into Guru unlocked nothing")
	}
}

func TestUnlocksAreIdempotent(t *testing.T) {
	store := NewMemoryStore()
	at := t0.Add(-time.Hour)

	radical := models.NewLessonRecord(radicalKey(1))
	radical.SRSStage = 3
	radical.NextReviewAt = &at
	// Both kanji-10 records already exist from an earlier unlock.
	for _, q := range []models.QuestionType{models.QuestionMeaning, models.QuestionReading} {
		k := models.NewLessonRecord(kanjiKey(10, q))
		if err := store.Set(k); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if err := store.Set(radical); err != nil {
		t.Fatalf("Set: %v", err)
	}

	eng, err := New(Config{
		Catalog: testCatalog(),
		Store:   store,
		Now:     func() time.Time { return t0 },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := eng.SubmitAnswer(radicalKey(1), true, nil)
	if len(result.Unlocked) != 0 {
		t.Errorf("re-entering Guru recreated records: %v", result.Unlocked)
	}
}

func TestVocabularyUnlockWaitsForAllKanji(t *testing.T) {
	store := NewMemoryStore()
	at := t0.Add(-time.Hour)

	seed := func(key models.ProgressKey, stage int) {
		rec := models.NewLessonRecord(key)
		rec.SRSStage = stage
		rec.NextReviewAt = &at
		if err := store.Set(rec); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	seed(kanjiKey(10, models.QuestionMeaning), 3)
	seed(kanjiKey(10, models.QuestionReading), 2)
	seed(kanjiKey(11, models.QuestionMeaning), models.StageGuru)

	eng, err := New(Config{
		Catalog: testCatalog(),
		Store:   store,
		Now:     func() time.Time { return t0 },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := eng.SubmitAnswer(kanjiKey(10, models.QuestionMeaning), true, nil)

	// Vocabulary 100 needs kanji 10 and 11; both are now Guru. Vocabulary
	// 101 has no component list and unlocks on the substring match alone.
	unlocked := make(map[models.ProgressKey]bool)
	for _, key := range result.Unlocked {
		unlocked[key] = true
	}
	for _, want := range []models.ProgressKey{
		vocabKey(100, models.QuestionMeaning),
		vocabKey(100, models.QuestionReading),
		vocabKey(101, models.QuestionMeaning),
		vocabKey(101, models.QuestionReading),
	} {
		if !unlocked[want] {
			t.Errorf("missing unlock %s (got %v)", want, result.Unlocked)
		}
	}
	// Kanji mastery never advances the level.
	if result.NewLevel != 0 {
		t.Errorf("NewLevel = %d from a kanji answer, want 0", result.NewLevel)
	}
}

func TestSubmitAnswerUnknownKeyIsNoOp(t *testing.T) {
	eng, _ := testEngine(t, testCatalog())

	result := eng.SubmitAnswer(kanjiKey(999, models.QuestionMeaning), true, nil)
	if result.Record != nil || len(result.Unlocked) != 0 || result.NewLevel != 0 {
		t.Errorf("unknown key produced %+v, want empty result", result)
	}
}

func TestBurnedRecordLeavesReviewQueue(t *testing.T) {
	store := NewMemoryStore()
	rec := models.NewLessonRecord(radicalKey(1))
	rec.SRSStage = 7
	at := t0.Add(-time.Hour)
	rec.NextReviewAt = &at
	if err := store.Set(rec); err != nil {
		t.Fatalf("Set: %v", err)
	}

	eng, err := New(Config{
		Catalog: testCatalog(),
		Store:   store,
		Now:     func() time.Time { return t0 },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := eng.SubmitAnswer(radicalKey(1), true, nil)
	if result.Record.SRSStage != models.StageBurned {
		t.Fatalf("stage = %d, want %d", result.Record.SRSStage, models.StageBurned)
	}
	if result.Record.NextReviewAt != nil {
		t.Errorf("burned record still scheduled at %v", result.Record.NextReviewAt)
	}
	if due := eng.DueRecords(); len(due) != 0 {
		t.Errorf("burned record still due: %v", due)
	}
}
