package logentry

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      Entry
		wantFrame bool
	}{
		{
			name: "structured",
			raw:  "[2024.01.15-10.30.45:123][ 42]LogNet: Warning: connection lost",
			want: Entry{
				Timestamp: "2024.01.15-10.30.45:123",
				Frame:     42,
				Category:  "LogNet",
				Level:     "Warning",
				Message:   "connection lost",
				Format:    FormatStructured,
			},
			wantFrame: true,
		},
		{
			name: "structured without padding in frame",
			raw:  "[2024.01.15-10.30.45:123][7]LogTemp: Error: boom",
			want: Entry{
				Timestamp: "2024.01.15-10.30.45:123",
				Frame:     7,
				Category:  "LogTemp",
				Level:     "Error",
				Message:   "boom",
				Format:    FormatStructured,
			},
			wantFrame: true,
		},
		{
			name: "semi-structured",
			raw:  "[2024.01.15-10.30.45:123]LogInit: Display: engine ready",
			want: Entry{
				Timestamp: "2024.01.15-10.30.45:123",
				Category:  "LogInit",
				Level:     "Display",
				Message:   "engine ready",
				Format:    FormatSemiStructured,
			},
		},
		{
			name: "simple",
			raw:  "LogConfig: applying settings",
			want: Entry{
				Category: "LogConfig",
				Message:  "applying settings",
				Format:   FormatSimple,
			},
		},
		{
			name: "simple keeps extra colons in message",
			raw:  "LogConfig: Warning: key missing",
			want: Entry{
				Category: "LogConfig",
				Message:  "Warning: key missing",
				Format:   FormatSimple,
			},
		},
		{
			name: "fallback with Log prefix",
			raw:  "LogWindows failed to load library",
			want: Entry{
				Category: "LogWindows",
				Message:  "failed to load library",
				Format:   FormatFallback,
			},
		},
		{
			name: "fallback with long capitalized token",
			raw:  "Shader compile finished in 2.3s",
			want: Entry{
				Category: "Shader",
				Message:  "compile finished in 2.3s",
				Format:   FormatFallback,
			},
		},
		{
			name: "fallback short token is unknown",
			raw:  "Ok so this happened",
			want: Entry{
				Category: UnknownCategory,
				Message:  "Ok so this happened",
				Format:   FormatFallback,
			},
		},
		{
			name: "fallback lowercase token is unknown",
			raw:  "something went wrong",
			want: Entry{
				Category: UnknownCategory,
				Message:  "something went wrong",
				Format:   FormatFallback,
			},
		},
		{
			name: "bracketed line with unexpected layout",
			raw:  "[2024.01.15-10.30.45:123][ 42]LogNet: lost connection to host",
			want: Entry{
				Category: UnknownCategory,
				Message:  "[2024.01.15-10.30.45:123][ 42]LogNet: lost connection to host",
				Format:   FormatFallback,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, 9)
			if got.RawLine != tt.raw {
				t.Fatalf("RawLine = %q, want %q", got.RawLine, tt.raw)
			}
			if got.LineNumber != 9 {
				t.Fatalf("LineNumber = %d, want 9", got.LineNumber)
			}
			if got.HasFrame != tt.wantFrame {
				t.Fatalf("HasFrame = %v, want %v", got.HasFrame, tt.wantFrame)
			}
			if got.Timestamp != tt.want.Timestamp {
				t.Errorf("Timestamp = %q, want %q", got.Timestamp, tt.want.Timestamp)
			}
			if got.Frame != tt.want.Frame {
				t.Errorf("Frame = %d, want %d", got.Frame, tt.want.Frame)
			}
			if got.Category != tt.want.Category {
				t.Errorf("Category = %q, want %q", got.Category, tt.want.Category)
			}
			if got.Level != tt.want.Level {
				t.Errorf("Level = %q, want %q", got.Level, tt.want.Level)
			}
			if got.Message != tt.want.Message {
				t.Errorf("Message = %q, want %q", got.Message, tt.want.Message)
			}
			if got.Format != tt.want.Format {
				t.Errorf("Format = %v, want %v", got.Format, tt.want.Format)
			}
		})
	}
}

func TestParse_AlwaysProducesCategory(t *testing.T) {
	inputs := []string{
		" ",
		":",
		"[",
		"[]",
		"[x][y]z",
		"1234 numbers first",
		"_private: value",
		"Ünïcode line",
		"LogA",
		"\t\tindented continuation",
		"[2024.01.15][ 1]: Error: missing category",
	}
	for _, raw := range inputs {
		got := Parse(raw, 1)
		if got.RawLine == "" {
			t.Fatalf("Parse(%q).RawLine is empty", raw)
		}
		if got.Category == "" {
			t.Fatalf("Parse(%q).Category is empty", raw)
		}
	}
}
