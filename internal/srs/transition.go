package srs

import (
	"log"
	"time"
)

// Transition is the outcome of one answered review: the stage the record
// moves to and when it next comes due. NextReviewAt is nil once an item
// is burned.
type Transition struct {
	NextStage    int
	NextReviewAt *time.Time
}

// Compute maps (current stage, correctness) to the next stage and review
// time. Correct answers climb one rung and cap at Burned. Incorrect
// answers fall all the way back to Apprentice I from the Apprentice band,
// drop two rungs from Guru and above, and reopen a burned item at
// Apprentice I.
func Compute(currentStage int, correct bool, now time.Time) Transition {
	next := currentStage

	if correct {
		if next < 8 {
			next++
		}
	} else {
		switch {
		case next >= 0 && next <= 3:
			next = 0
		case next >= 4 && next <= 7:
			next -= 2
			if next < 0 {
				next = 0
			}
		case next == 8:
			next = 0
		}
	}

	return scheduled(currentStage, next, now)
}

// ComputePartial handles the wrong-then-right-on-retry outcome: advance by
// exactly one rung, with the normal interval for the resulting stage. The
// caller is responsible for counting the miss and resetting the streak.
func ComputePartial(currentStage int, now time.Time) Transition {
	next := currentStage + 1
	if next > 8 {
		next = 8
	}
	return scheduled(currentStage, next, now)
}

func scheduled(currentStage, next int, now time.Time) Transition {
	// Out-of-range stages come from corrupted stored state; clamp and log
	// rather than fail.
	if next < 0 || next >= len(Stages) {
		log.Printf("srs: stage %d out of range (from stage %d), clamping to 0", next, currentStage)
		next = 0
	}

	if next == 8 {
		return Transition{NextStage: 8}
	}
	at := now.Add(Stages[next].Interval)
	return Transition{NextStage: next, NextReviewAt: &at}
}
