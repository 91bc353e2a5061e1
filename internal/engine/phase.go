package engine

import "fmt"

// Phase is the round controller state.
type Phase int

const (
	Idle          Phase = iota // No session started.
	Memorize                   // Cursor is inside the first N stimuli.
	Answer                     // A stimulus is shown and an older one is owed.
	Flush                      // Stimuli exhausted, tail answers still owed.
	BatchComplete              // Daily stage transition between batches.
	Finished                   // Session finalized; read-only.
)

var phaseNames = [...]string{
	Idle:          "Idle",
	Memorize:      "Memorize",
	Answer:        "Answer",
	Flush:         "Flush",
	BatchComplete: "BatchComplete",
	Finished:      "Finished",
}

// String returns the phase name.
func (p Phase) String() string {
	if p >= Idle && p <= Finished {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Active reports whether the phase belongs to a running session.
func (p Phase) Active() bool {
	return p >= Memorize && p <= BatchComplete
}

// AcceptsDigits reports whether digit input is meaningful in this phase.
func (p Phase) AcceptsDigits() bool {
	return p == Answer || p == Flush
}
