package generator

import (
	"strconv"
	"strings"
	"testing"
)

func evalExpression(t *testing.T, expr string) int {
	t.Helper()
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		t.Fatalf("unexpected expression %q", expr)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		t.Fatalf("bad operand in %q: %v", expr, err)
	}
	b, err := strconv.Atoi(parts[2])
	if err != nil {
		t.Fatalf("bad operand in %q: %v", expr, err)
	}
	switch parts[1] {
	case "+":
		return a + b
	case "-":
		return a - b
	default:
		t.Fatalf("unexpected operator in %q", expr)
		return 0
	}
}

func TestGenerateSingleDigitResults(t *testing.T) {
	g := NewSeeded(42)
	ops := map[string]int{}
	seen := map[string]struct{}{}
	for i := 0; i < 2000; i++ {
		s := g.Generate()
		if s.Answer < 0 || s.Answer > 9 {
			t.Fatalf("answer out of range: %+v", s)
		}
		if got := evalExpression(t, s.Expression); got != s.Answer {
			t.Fatalf("expression %q evaluates to %d, answer %d", s.Expression, got, s.Answer)
		}
		ops[strings.Fields(s.Expression)[1]]++
		if _, dup := seen[s.ID]; dup {
			t.Fatalf("duplicate id %s", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	if ops["+"] < 800 || ops["-"] < 800 {
		t.Fatalf("operator mix skewed: %v", ops)
	}
}

func TestScriptReplaysThenFallsBack(t *testing.T) {
	script := NewScript(Tutorial(), NewSeeded(7))
	want := []int{6, 4, 5}
	for i, ans := range want {
		s := script.Generate()
		if s.Answer != ans {
			t.Fatalf("step %d: expected %d, got %d", i, ans, s.Answer)
		}
	}
	extra := script.Generate()
	if extra.Answer < 0 || extra.Answer > 9 {
		t.Fatalf("fallback answer out of range: %+v", extra)
	}
}

func TestFactSubtraction(t *testing.T) {
	s := Fact(5, '-', 0)
	if s.Expression != "5 - 0" || s.Answer != 5 {
		t.Fatalf("unexpected fact: %+v", s)
	}
}
