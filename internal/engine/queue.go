package engine

import "github.com/verte-zerg/nback/internal/model"

// Source produces stimuli on demand.
type Source interface {
	Generate() model.Stimulus
}

// Queue is an append-only sequence of stimuli indexed from 0.
type Queue struct {
	items []model.Stimulus
}

// NewQueue returns a queue pre-filled with n stimuli from src.
func NewQueue(src Source, n int) *Queue {
	q := &Queue{}
	if n > 0 {
		q.items = make([]model.Stimulus, 0, n)
	}
	for i := 0; i < n; i++ {
		q.items = append(q.items, src.Generate())
	}
	return q
}

// Len returns the number of buffered stimuli.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// At returns the stimulus at position i, if buffered.
func (q *Queue) At(i int) (model.Stimulus, bool) {
	if q == nil || i < 0 || i >= len(q.items) {
		return model.Stimulus{}, false
	}
	return q.items[i], true
}

// Append adds stimuli to the tail.
func (q *Queue) Append(items ...model.Stimulus) {
	q.items = append(q.items, items...)
}

// Refill tops the queue up so that at least lookahead stimuli follow the
// cursor, never growing past limit. A limit <= 0 means unbounded. It returns
// the number of stimuli appended.
func (q *Queue) Refill(cursor, lookahead, limit int, src Source) int {
	want := cursor + lookahead + 1
	if limit > 0 && want > limit {
		want = limit
	}
	added := 0
	for len(q.items) < want {
		q.items = append(q.items, src.Generate())
		added++
	}
	return added
}
