// Package session builds and runs review and lesson sessions over the
// scheduling engine: randomized question order, a single-retry policy
// with reading-hint exemption, immediate requeue of failed reviews, and
// batched two-phase lessons.
package session

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/example/wanokuni/internal/engine"
	"github.com/example/wanokuni/pkg/models"
)

// Engine is the part of the scheduling engine sessions drive.
// *engine.Engine satisfies it.
type Engine interface {
	CheckAnswer(itemType models.ItemType, itemID int, question models.QuestionType, answer string) engine.CheckResult
	SubmitAnswer(key models.ProgressKey, correct bool, opts *engine.SubmitOptions) engine.SubmitResult
	CompleteLesson(key models.ProgressKey) *models.ProgressRecord
	DueRecords() []models.ProgressRecord
	PendingLessonRecords() []models.ProgressRecord
}

// Question is one prompt within a session. Kanji and vocabulary
// contribute separate meaning and reading questions that are shuffled
// independently, so one item's questions may sit far apart.
type Question struct {
	Key models.ProgressKey
}

// Verdict classifies what happened to one submitted answer.
type Verdict string

const (
	// VerdictHint means the reading matched the wrong reading system.
	// The question is re-prompted and no attempt is consumed.
	VerdictHint Verdict = "hint"
	// VerdictRetry means the first attempt missed; one more attempt is
	// granted on the same question.
	VerdictRetry Verdict = "retry"
	// VerdictCorrect is a first-try success: full SRS advance.
	VerdictCorrect Verdict = "correct"
	// VerdictPartial is a success on the retry: the record advances one
	// stage only and the miss is counted.
	VerdictPartial Verdict = "partial"
	// VerdictIncorrect means both attempts missed.
	VerdictIncorrect Verdict = "incorrect"
)

// Outcome reports the result of an Answer call.
type Outcome struct {
	Verdict Verdict
	Hint    engine.Hint
	// Submit carries the engine's state change for final verdicts in
	// review sessions (zero otherwise), including unlocks and level
	// advances worth announcing.
	Submit engine.SubmitResult
}

// Final reports whether the verdict ends the current question.
func (o Outcome) Final() bool {
	switch o.Verdict {
	case VerdictCorrect, VerdictPartial, VerdictIncorrect:
		return true
	}
	return false
}

func sessionRNG(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func shuffle(rng *rand.Rand, qs []Question) {
	rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}

func questionsFrom(records []models.ProgressRecord) []Question {
	qs := make([]Question, 0, len(records))
	for _, rec := range records {
		qs = append(qs, Question{Key: rec.Key})
	}
	return qs
}

// Review is a live review session. The question set is fixed at
// construction; later unlocks never join a running session. Only failed
// questions are re-inserted, immediately after the current position, so
// the learner repeats them before the session ends.
type Review struct {
	id    string
	eng   Engine
	queue []Question
	index int
	// retried marks that the current question already consumed its
	// single retry.
	retried bool

	Correct   int
	Incorrect int
}

// NewReview captures every due question, shuffled with the given source.
// A nil rng gets a time-seeded one; tests pass a fixed seed.
func NewReview(eng Engine, rng *rand.Rand) *Review {
	qs := questionsFrom(eng.DueRecords())
	shuffle(sessionRNG(rng), qs)
	return &Review{
		id:    uuid.NewString(),
		eng:   eng,
		queue: qs,
	}
}

// ID returns the session's unique id.
func (s *Review) ID() string { return s.id }

// Len returns the current queue length, including requeued failures.
func (s *Review) Len() int { return len(s.queue) }

// Remaining returns how many questions are left to answer.
func (s *Review) Remaining() int { return len(s.queue) - s.index }

// Done reports whether the session is finished.
func (s *Review) Done() bool { return s.index >= len(s.queue) }

// Current returns the question awaiting an answer.
func (s *Review) Current() (Question, bool) {
	if s.Done() {
		return Question{}, false
	}
	return s.queue[s.index], true
}

// Answer submits one answer for the current question and applies the
// retry policy. Hinted attempts re-prompt without consuming the retry.
func (s *Review) Answer(text string) Outcome {
	q, ok := s.Current()
	if !ok {
		return Outcome{Verdict: VerdictIncorrect}
	}

	check := s.eng.CheckAnswer(q.Key.Type, q.Key.ID, q.Key.Question, text)
	if check.Hint != engine.HintNone {
		return Outcome{Verdict: VerdictHint, Hint: check.Hint}
	}

	if !check.Correct && !s.retried {
		s.retried = true
		return Outcome{Verdict: VerdictRetry}
	}

	out := s.finalize(q, check.Correct)
	s.advance()
	return out
}

func (s *Review) finalize(q Question, correct bool) Outcome {
	switch {
	case correct && !s.retried:
		s.Correct++
		return Outcome{
			Verdict: VerdictCorrect,
			Submit:  s.eng.SubmitAnswer(q.Key, true, nil),
		}
	case correct && s.retried:
		s.Incorrect++
		return Outcome{
			Verdict: VerdictPartial,
			Submit:  s.eng.SubmitAnswer(q.Key, false, &engine.SubmitOptions{PartialCorrect: true}),
		}
	default:
		s.Incorrect++
		out := Outcome{
			Verdict: VerdictIncorrect,
			Submit:  s.eng.SubmitAnswer(q.Key, false, nil),
		}
		// Immediate relearning: repeat the failed question later in
		// this session rather than deferring it to the next one.
		s.requeue(q)
		return out
	}
}

func (s *Review) requeue(q Question) {
	at := s.index + 1
	s.queue = append(s.queue, Question{})
	copy(s.queue[at+1:], s.queue[at:])
	s.queue[at] = q
}

func (s *Review) advance() {
	s.index++
	s.retried = false
}
