package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/logtrail/internal/logentry"
)

// Kind selects which entry field a Predicate inspects.
type Kind int

const (
	LevelEquals Kind = iota
	LoggerEquals
	LoggerContains
	TextContains
	TimestampAfter
	FrameAfter
)

func (k Kind) String() string {
	switch k {
	case LevelEquals:
		return "level"
	case LoggerEquals:
		return "logger"
	case LoggerContains:
		return "logger~"
	case TextContains:
		return "text"
	case TimestampAfter:
		return "after"
	case FrameAfter:
		return "frame>"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrInvalidPredicate is returned by ParsePredicate for unrecognised input.
var ErrInvalidPredicate = errors.New("invalid filter")

// Predicate is a pure test over a single entry.
type Predicate struct {
	Kind  Kind
	Value string
	Frame int
}

func Level(level string) Predicate { return Predicate{Kind: LevelEquals, Value: level} }
func Logger(name string) Predicate { return Predicate{Kind: LoggerEquals, Value: name} }
func LoggerLike(fragment string) Predicate { return Predicate{Kind: LoggerContains, Value: fragment} }
func Text(fragment string) Predicate { return Predicate{Kind: TextContains, Value: fragment} }
func After(timestamp string) Predicate { return Predicate{Kind: TimestampAfter, Value: timestamp} }
func AfterFrame(frame int) Predicate { return Predicate{Kind: FrameAfter, Frame: frame} }

// Matches reports whether e satisfies the predicate. Entries without a
// timestamp or frame never satisfy the corresponding ordering predicate.
func (p Predicate) Matches(e logentry.Entry) bool {
	switch p.Kind {
	case LevelEquals:
		return e.Level != "" && strings.EqualFold(e.Level, p.Value)
	case LoggerEquals:
		return e.Category == p.Value
	case LoggerContains:
		return containsFold(e.Category, p.Value)
	case TextContains:
		return containsFold(e.RawLine, p.Value)
	case TimestampAfter:
		return e.HasTimestamp() && e.Timestamp > p.Value
	case FrameAfter:
		return e.HasFrame && e.Frame > p.Frame
	default:
		return false
	}
}

// String renders the predicate in the syntax accepted by ParsePredicate.
func (p Predicate) String() string {
	switch p.Kind {
	case LevelEquals:
		return "level:" + p.Value
	case LoggerEquals:
		return "logger:" + p.Value
	case LoggerContains:
		return "logger~" + p.Value
	case TextContains:
		return "text:" + p.Value
	case TimestampAfter:
		return "after:" + p.Value
	case FrameAfter:
		return "frame>" + strconv.Itoa(p.Frame)
	default:
		return p.Kind.String()
	}
}

// ParsePredicate reads the textual filter syntax used on the command line,
// in presets and in the filter prompt:
//
//	level:Error  logger:LogNet  logger~net  text:timeout  after:2024.01.15  frame>120
//
// Input without a recognised prefix is treated as a text filter.
func ParsePredicate(s string) (Predicate, error) {
	spec := strings.TrimSpace(s)
	if spec == "" {
		return Predicate{}, fmt.Errorf("%w: empty", ErrInvalidPredicate)
	}

	if rest, ok := strings.CutPrefix(spec, "frame>"); ok {
		frame, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return Predicate{}, fmt.Errorf("%w: frame %q is not a number", ErrInvalidPredicate, rest)
		}
		return AfterFrame(frame), nil
	}
	if rest, ok := strings.CutPrefix(spec, "logger~"); ok {
		return nonEmpty(LoggerLike(strings.TrimSpace(rest)), spec)
	}

	prefix, rest, found := strings.Cut(spec, ":")
	if !found {
		return Text(spec), nil
	}
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(prefix) {
	case "level":
		return nonEmpty(Level(rest), spec)
	case "logger", "category":
		return nonEmpty(Logger(rest), spec)
	case "text":
		return nonEmpty(Text(rest), spec)
	case "after":
		return nonEmpty(After(rest), spec)
	default:
		return Text(spec), nil
	}
}

func nonEmpty(p Predicate, spec string) (Predicate, error) {
	if p.Value == "" {
		return Predicate{}, fmt.Errorf("%w: %q has no value", ErrInvalidPredicate, spec)
	}
	return p, nil
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
