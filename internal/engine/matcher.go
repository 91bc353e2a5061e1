package engine

import (
	"fmt"
	"strconv"

	"github.com/verte-zerg/nback/internal/model"
)

// MatchStatus is the outcome of comparing pending input against a target.
type MatchStatus int

const (
	Pending   MatchStatus = iota + 1 // Not enough input yet.
	Correct                          // Input equals the target answer.
	Incorrect                        // Input reached the answer length without matching.
)

var matchStatusNames = [...]string{Pending: "Pending", Correct: "Correct", Incorrect: "Incorrect"}

// String returns the status name.
func (s MatchStatus) String() string {
	if s >= Pending && s <= Incorrect {
		return matchStatusNames[s]
	}
	return fmt.Sprintf("MatchStatus(%d)", int(s))
}

// MatchTarget returns the stimulus the user owes at currentIndex for lag n.
// It reports false while the lag window has not been filled yet or when the
// target has not been buffered.
func MatchTarget(q *Queue, currentIndex, n int) (model.Stimulus, bool) {
	idx := currentIndex - n
	if idx < 0 {
		return model.Stimulus{}, false
	}
	return q.At(idx)
}

// CheckInput compares pending digits with the target's decimal answer.
// Resolution happens on an exact match or once the input is as long as the
// answer; there is no edit path.
func CheckInput(pending string, target model.Stimulus) MatchStatus {
	want := strconv.Itoa(target.Answer)
	switch {
	case pending == "":
		return Pending
	case pending == want:
		return Correct
	case len(pending) >= len(want):
		return Incorrect
	default:
		return Pending
	}
}
