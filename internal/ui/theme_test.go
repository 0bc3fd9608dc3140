package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Dracula" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Dracula", "Slate"},
		{"Slate", "Dracula"},
		{"Unknown", "Dracula"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%s) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula (fallback)", got)
	}
}

func TestLevelStyle(t *testing.T) {
	th := GetTheme("Dracula")
	styles := th.Styles()

	tests := []struct {
		level string
		want  string
	}{
		{"Error", th.LevelColors["error"]},
		{" warning ", th.LevelColors["warning"]},
		{"VeryVerbose", th.LevelColors["veryverbose"]},
		{"", th.Text},
		{"Chatty", th.Text},
	}
	for _, tt := range tests {
		got := styles.LevelStyle(tt.level).GetForeground()
		if got != lipgloss.Color(tt.want) {
			t.Fatalf("LevelStyle(%q) foreground = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestEveryThemeColorsEveryLevel(t *testing.T) {
	levels := []string{"fatal", "error", "warning", "display", "log", "verbose", "veryverbose"}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, level := range levels {
			if th.LevelColors[level] == "" {
				t.Fatalf("theme %s has no color for level %s", name, level)
			}
		}
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer text", 8, "much lo…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := clip(tt.text, tt.width); got != tt.want {
			t.Fatalf("clip(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
