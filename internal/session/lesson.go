package session

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/example/wanokuni/internal/engine"
	"github.com/example/wanokuni/pkg/models"
)

// DefaultBatchSize is how many lesson questions are taught and quizzed
// together.
const DefaultBatchSize = 5

// Phase is the stage a lesson batch is in.
type Phase string

const (
	// PhaseTeaching presents each batch member once, unscored.
	PhaseTeaching Phase = "teaching"
	// PhaseQuiz tests the same fixed batch with the review retry policy.
	PhaseQuiz Phase = "quiz"
)

// Lesson is a live lesson session: pending-lesson questions shuffled and
// partitioned into fixed batches, each taught then quizzed. Batch
// membership is captured at construction and never changes. Completing a
// batch's quiz seeds every member to Apprentice I through the engine's
// unscored complete-lesson operation.
type Lesson struct {
	id      string
	eng     Engine
	batches [][]Question

	batchIndex int
	phase      Phase
	index      int
	retried    bool

	Correct   int
	Incorrect int
}

// NewLesson captures the pending lesson queue in randomized batches of
// the given size (DefaultBatchSize when size is not positive).
func NewLesson(eng Engine, batchSize int, rng *rand.Rand) *Lesson {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	qs := questionsFrom(eng.PendingLessonRecords())
	shuffle(sessionRNG(rng), qs)

	var batches [][]Question
	for start := 0; start < len(qs); start += batchSize {
		end := start + batchSize
		if end > len(qs) {
			end = len(qs)
		}
		batches = append(batches, qs[start:end])
	}

	return &Lesson{
		id:      uuid.NewString(),
		eng:     eng,
		batches: batches,
		phase:   PhaseTeaching,
	}
}

// ID returns the session's unique id.
func (s *Lesson) ID() string { return s.id }

// Batches returns how many batches the session holds.
func (s *Lesson) Batches() int { return len(s.batches) }

// BatchNumber returns the 1-based index of the batch in progress.
func (s *Lesson) BatchNumber() int { return s.batchIndex + 1 }

// Phase returns the current batch's phase.
func (s *Lesson) Phase() Phase { return s.phase }

// Done reports whether every batch has been completed.
func (s *Lesson) Done() bool { return s.batchIndex >= len(s.batches) }

// Current returns the question being taught or quizzed.
func (s *Lesson) Current() (Question, bool) {
	if s.Done() {
		return Question{}, false
	}
	batch := s.batches[s.batchIndex]
	if s.index >= len(batch) {
		return Question{}, false
	}
	return batch[s.index], true
}

// AdvanceTeaching moves past the current teaching card. After the last
// card of a batch the session flips to the quiz phase over the same
// members.
func (s *Lesson) AdvanceTeaching() {
	if s.Done() || s.phase != PhaseTeaching {
		return
	}
	s.index++
	if s.index >= len(s.batches[s.batchIndex]) {
		s.phase = PhaseQuiz
		s.index = 0
	}
}

// Answer submits one quiz answer with the same single-retry,
// hint-exempt policy as reviews. Quiz outcomes only tally session
// stats; the stage seed happens when the batch completes, unscored.
func (s *Lesson) Answer(text string) Outcome {
	if s.phase != PhaseQuiz {
		return Outcome{Verdict: VerdictIncorrect}
	}
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

	var out Outcome
	switch {
	case check.Correct && !s.retried:
		s.Correct++
		out = Outcome{Verdict: VerdictCorrect}
	case check.Correct && s.retried:
		s.Incorrect++
		out = Outcome{Verdict: VerdictPartial}
	default:
		s.Incorrect++
		out = Outcome{Verdict: VerdictIncorrect}
	}

	s.index++
	s.retried = false
	if s.index >= len(s.batches[s.batchIndex]) {
		s.completeBatch()
	}
	return out
}

// completeBatch seeds every member of the finished batch into the SRS
// ladder and moves on to teaching the next batch.
func (s *Lesson) completeBatch() {
	for _, q := range s.batches[s.batchIndex] {
		s.eng.CompleteLesson(q.Key)
	}
	s.batchIndex++
	s.phase = PhaseTeaching
	s.index = 0
	s.retried = false
}

// Keys returns the keys of every question in the session, batch by
// batch, for progress displays.
func (s *Lesson) Keys() []models.ProgressKey {
	var keys []models.ProgressKey
	for _, batch := range s.batches {
		for _, q := range batch {
			keys = append(keys, q.Key)
		}
	}
	return keys
}
