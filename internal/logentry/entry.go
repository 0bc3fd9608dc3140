package logentry

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// UnknownCategory is assigned when no logger name can be recovered from a line.
const UnknownCategory = "Unknown"

// Format identifies the strategy that produced an entry's fields.
type Format int

const (
	FormatStructured Format = iota
	FormatSemiStructured
	FormatSimple
	FormatFallback
)

func (f Format) String() string {
	switch f {
	case FormatStructured:
		return "structured"
	case FormatSemiStructured:
		return "semi-structured"
	case FormatSimple:
		return "simple"
	default:
		return "fallback"
	}
}

// Entry is one parsed log line. Entries are immutable once parsed.
type Entry struct {
	RawLine    string
	LineNumber int
	Timestamp  string
	Frame      int
	HasFrame   bool
	Category   string
	Level      string
	Message    string
	Format     Format
}

// HasTimestamp reports whether the line carried a bracketed timestamp.
func (e Entry) HasTimestamp() bool {
	return e.Timestamp != ""
}

var (
	structuredRe     = regexp.MustCompile(`^\[([^\]]+)\]\[\s*(\d+)\]([A-Za-z_][\w.\-]*):\s*([A-Za-z]+):\s?(.*)$`)
	semiStructuredRe = regexp.MustCompile(`^\[([^\]]+)\]([A-Za-z_][\w.\-]*):\s*([A-Za-z]+):\s?(.*)$`)
	simpleRe         = regexp.MustCompile(`^([A-Za-z_][\w.\-]*):\s(.*)$`)
)

type strategy func(raw string, e *Entry) bool

// strategies run in priority order; the first one that binds wins.
var strategies = []strategy{
	parseStructured,
	parseSemiStructured,
	parseSimple,
}

// Parse turns a raw line into an Entry. It never fails: lines that match no
// known layout fall through to a heuristic that always produces a category.
func Parse(raw string, lineNumber int) Entry {
	for _, try := range strategies {
		e := Entry{RawLine: raw, LineNumber: lineNumber}
		if try(raw, &e) {
			return e
		}
	}
	return parseFallback(raw, lineNumber)
}

func parseStructured(raw string, e *Entry) bool {
	m := structuredRe.FindStringSubmatch(raw)
	if m == nil {
		return false
	}
	frame, err := strconv.Atoi(m[2])
	if err != nil {
		return false
	}
	e.Timestamp = m[1]
	e.Frame = frame
	e.HasFrame = true
	e.Category = m[3]
	e.Level = m[4]
	e.Message = m[5]
	e.Format = FormatStructured
	return true
}

func parseSemiStructured(raw string, e *Entry) bool {
	m := semiStructuredRe.FindStringSubmatch(raw)
	if m == nil {
		return false
	}
	e.Timestamp = m[1]
	e.Category = m[2]
	e.Level = m[3]
	e.Message = m[4]
	e.Format = FormatSemiStructured
	return true
}

func parseSimple(raw string, e *Entry) bool {
	m := simpleRe.FindStringSubmatch(raw)
	if m == nil {
		return false
	}
	e.Category = m[1]
	e.Message = m[2]
	e.Format = FormatSimple
	return true
}

func parseFallback(raw string, lineNumber int) Entry {
	e := Entry{
		RawLine:    raw,
		LineNumber: lineNumber,
		Category:   UnknownCategory,
		Message:    raw,
		Format:     FormatFallback,
	}

	token := leadingIdentifier(raw)
	if token == "" || !unicode.IsUpper(rune(token[0])) {
		return e
	}
	if strings.HasPrefix(token, "Log") || len(token) > 4 {
		e.Category = token
		e.Message = strings.TrimSpace(raw[len(token):])
	}
	return e
}

// leadingIdentifier returns the run of ASCII letters, digits and underscores
// that starts the line, or "" when the line starts with anything else.
func leadingIdentifier(s string) string {
	end := 0
	for end < len(s) {
		c := s[end]
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isLetter && c != '_' && !(isDigit && end > 0) {
			break
		}
		end++
	}
	return s[:end]
}
