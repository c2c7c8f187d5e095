package srs

import "time"

// Stage describes one rung of the SRS ladder.
type Stage struct {
	Name string
	// Interval until the next review after reaching this stage. Zero for
	// Burned, which is never reviewed again.
	Interval time.Duration
}

// Stages is the fixed nine-stage ladder. Read-only configuration, indexed
// by stage number 0-8.
var Stages = [9]Stage{
	{Name: "Apprentice I", Interval: 4 * time.Hour},
	{Name: "Apprentice II", Interval: 8 * time.Hour},
	{Name: "Apprentice III", Interval: 23 * time.Hour},
	{Name: "Apprentice IV", Interval: 47 * time.Hour},
	{Name: "Guru I", Interval: 7 * 24 * time.Hour},
	{Name: "Guru II", Interval: 14 * 24 * time.Hour},
	{Name: "Master", Interval: 30 * 24 * time.Hour},
	{Name: "Enlightened", Interval: 120 * 24 * time.Hour},
	{Name: "Burned"},
}

// StageName returns the human label for a stage, including the pseudo
// stage -1 used for items still in the lesson queue.
func StageName(stage int) string {
	if stage == -1 {
		return "Lesson"
	}
	if stage < 0 || stage >= len(Stages) {
		return "Unknown"
	}
	return Stages[stage].Name
}
