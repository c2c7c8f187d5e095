package models

import (
	"fmt"
	"time"
)

// QuestionType distinguishes the two questions an item can be tested on.
type QuestionType string

const (
	QuestionMeaning QuestionType = "meaning"
	QuestionReading QuestionType = "reading"
)

// SRS stage boundaries. Stages 0-3 are Apprentice, 4-5 Guru, 6 Master,
// 7 Enlightened, 8 Burned. Stage -1 means the item is waiting in the
// lesson queue and has never been studied.
const (
	StageLesson = -1
	StageGuru   = 4
	StageBurned = 8
)

// ProgressKey is the composite identity of a progress record. It is a
// struct rather than a concatenated string so ids containing delimiter
// characters can never collide.
type ProgressKey struct {
	Type     ItemType     `json:"item_type" db:"item_type"`
	ID       int          `json:"item_id" db:"item_id"`
	Question QuestionType `json:"question_type" db:"question_type"`
}

func (k ProgressKey) String() string {
	return fmt.Sprintf("%s_%d_%s", k.Type, k.ID, k.Question)
}

// ProgressRecord tracks one (item, question) pair through the SRS ladder.
// Records are created at stage -1, never deleted; Burned (stage 8) is
// terminal but the record persists for statistics.
type ProgressRecord struct {
	Key             ProgressKey `json:"key"`
	SRSStage        int         `json:"srs_stage" db:"srs_stage"`
	NextReviewAt    *time.Time  `json:"next_review_at" db:"next_review_at"`
	IncorrectCount  int         `json:"incorrect_count" db:"incorrect_count"`
	CorrectStreak   int         `json:"correct_streak" db:"correct_streak"`
	LessonCompleted bool        `json:"lesson_completed" db:"lesson_completed"`
}

// NewLessonRecord seeds a record in the pending-lesson state.
func NewLessonRecord(key ProgressKey) *ProgressRecord {
	return &ProgressRecord{
		Key:      key,
		SRSStage: StageLesson,
	}
}

// DueAt reports whether the record is reviewable at the given instant:
// out of the lesson queue, not burned, and past its scheduled time.
func (r *ProgressRecord) DueAt(now time.Time) bool {
	return r.SRSStage >= 0 && r.SRSStage < StageBurned &&
		r.NextReviewAt != nil && !r.NextReviewAt.After(now)
}

// PendingLesson reports whether the record is still waiting to be taught.
func (r *ProgressRecord) PendingLesson() bool {
	return r.SRSStage == StageLesson && !r.LessonCompleted
}
