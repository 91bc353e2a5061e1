// Package generator builds arithmetic stimuli.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/nback/internal/model"
)

// Generator produces randomized single-digit arithmetic facts.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns one addition or subtraction whose result is in 0..9.
func (g *Generator) Generate() model.Stimulus {
	var a, b, ans int
	op := '+'
	if g.rnd.Intn(2) == 0 {
		op = '-'
	}
	if op == '+' {
		// Pick the sum first so both addends stay non-negative.
		ans = g.rnd.Intn(10)
		a = g.rnd.Intn(ans + 1)
		b = ans - a
	} else {
		a = g.rnd.Intn(10)
		b = g.rnd.Intn(a + 1)
		ans = a - b
	}
	return model.Stimulus{
		ID:         uuid.NewString(),
		Expression: fmt.Sprintf("%d %c %d", a, op, b),
		Answer:     ans,
	}
}

// Script replays a fixed list of stimuli before deferring to a fallback source.
type Script struct {
	items    []model.Stimulus
	next     int
	fallback interface{ Generate() model.Stimulus }
}

// NewScript builds a Script. A nil fallback yields a seeded Generator.
func NewScript(items []model.Stimulus, fallback interface{ Generate() model.Stimulus }) *Script {
	if fallback == nil {
		fallback = NewSeeded(1)
	}
	return &Script{items: items, fallback: fallback}
}

// Generate returns the next scripted stimulus or a fallback one.
func (s *Script) Generate() model.Stimulus {
	if s.next < len(s.items) {
		item := s.items[s.next]
		s.next++
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		return item
	}
	return s.fallback.Generate()
}

// Fact builds a stimulus from operands; op must be '+' or '-'.
func Fact(a int, op rune, b int) model.Stimulus {
	ans := a + b
	if op == '-' {
		ans = a - b
	}
	return model.Stimulus{
		ID:         uuid.NewString(),
		Expression: fmt.Sprintf("%d %c %d", a, op, b),
		Answer:     ans,
	}
}

// Tutorial returns the scripted walkthrough: 3+3=6, 2+2=4, 5-0=5.
func Tutorial() []model.Stimulus {
	return []model.Stimulus{
		Fact(3, '+', 3),
		Fact(2, '+', 2),
		Fact(5, '-', 0),
	}
}
