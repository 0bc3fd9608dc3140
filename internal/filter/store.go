package filter

import (
	"strings"

	"github.com/five82/logtrail/internal/logentry"
)

// DefaultMaxContext is the upper bound for context lines when none is configured.
const DefaultMaxContext = 10

// contextSteps is the sequence context adjustments walk through.
var contextSteps = []int{0, 1, 2, 3, 5, 10}

// Mode names which predicate collection a Store evaluates.
type Mode int

const (
	ModeToggles Mode = iota
	ModeExpression
)

func (m Mode) String() string {
	if m == ModeExpression {
		return "expression"
	}
	return "toggles"
}

// Store is the active filter configuration: a toggle set, a hierarchical
// expression that overrides it while non-empty, and the context setting.
type Store struct {
	toggles    ToggleSet
	expression Expression
	context    int
	maxContext int
}

// NewStore returns an empty store whose context never exceeds maxContext.
func NewStore(maxContext int) *Store {
	if maxContext <= 0 {
		maxContext = DefaultMaxContext
	}
	return &Store{maxContext: maxContext}
}

// Mode reports which collection Matches consults.
func (s *Store) Mode() Mode {
	if !s.expression.IsEmpty() {
		return ModeExpression
	}
	return ModeToggles
}

// Matches reports whether e passes the active predicates.
func (s *Store) Matches(e logentry.Entry) bool {
	switch s.Mode() {
	case ModeExpression:
		return s.expression.Matches(e)
	default:
		return s.toggles.Matches(e)
	}
}

// IsEmpty reports whether every entry passes.
func (s *Store) IsEmpty() bool {
	switch s.Mode() {
	case ModeExpression:
		return false
	default:
		return s.toggles.ActiveCount() == 0
	}
}

func (s *Store) Toggles() *ToggleSet { return &s.toggles }
func (s *Store) Expression() *Expression { return &s.expression }

// ContextLines returns the number of surrounding lines shown around a match.
func (s *Store) ContextLines() int { return s.context }

func (s *Store) MaxContext() int { return s.maxContext }

// SetContextLines clamps n into [0, max] and reports whether the value changed.
func (s *Store) SetContextLines(n int) bool {
	n = max(0, min(n, s.maxContext))
	if n == s.context {
		return false
	}
	s.context = n
	return true
}

// IncreaseContext moves to the next step, clamped to the maximum.
func (s *Store) IncreaseContext() bool {
	next := s.maxContext
	for _, step := range contextSteps {
		if step > s.context {
			next = min(step, s.maxContext)
			break
		}
	}
	return s.SetContextLines(next)
}

// DecreaseContext moves to the previous step.
func (s *Store) DecreaseContext() bool {
	prev := 0
	for _, step := range contextSteps {
		if step >= s.context {
			break
		}
		prev = step
	}
	return s.SetContextLines(prev)
}

// Summary renders the effective filters for a status line.
func (s *Store) Summary() string {
	var parts []string
	if s.Mode() == ModeExpression {
		for _, item := range s.expression.Items() {
			parts = append(parts, item.Predicate.String())
		}
		return strings.Join(parts, " & ")
	}
	for _, item := range s.toggles.Items() {
		if item.Active {
			parts = append(parts, item.Predicate.String())
		}
	}
	return strings.Join(parts, " ")
}
