package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/logtrail/internal/filter"
	"github.com/five82/logtrail/internal/presets"
	"github.com/five82/logtrail/internal/tailsource"
)

func TestBuildFilters(t *testing.T) {
	saved := presets.File{Presets: map[string]presets.Preset{
		"net": {Filters: []string{"logger~net"}, ContextLines: 3},
	}}

	tests := []struct {
		name        string
		preset      string
		specs       []string
		context     int
		wantToggles []string
		wantContext int
		wantErr     error
	}{
		{"nothing", "", nil, -1, nil, 0, nil},
		{"flags only", "", []string{"level:Error", "timeout"}, 2, []string{"level:Error", "text:timeout"}, 2, nil},
		{"preset then flags", "net", []string{"level:Warning"}, -1, []string{"logger~net", "level:Warning"}, 3, nil},
		{"explicit context wins", "net", nil, 1, []string{"logger~net"}, 1, nil},
		{"context clamped", "", nil, 99, nil, 10, nil},
		{"unknown preset", "missing", nil, -1, nil, 0, presets.ErrUnknownPreset},
		{"bad flag", "", []string{"frame>x"}, -1, nil, 0, filter.ErrInvalidPredicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := BuildFilters(10, saved, tt.preset, tt.specs, tt.context)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildFilters returned error: %v", err)
			}
			items := store.Toggles().Items()
			if len(items) != len(tt.wantToggles) {
				t.Fatalf("toggles = %v, want %v", items, tt.wantToggles)
			}
			for i, want := range tt.wantToggles {
				if got := items[i].Predicate.String(); got != want {
					t.Fatalf("toggle[%d] = %q, want %q", i, got, want)
				}
			}
			if got := store.ContextLines(); got != tt.wantContext {
				t.Fatalf("ContextLines = %d, want %d", got, tt.wantContext)
			}
		})
	}
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := "poll_interval = \"10ms\"\n" +
		"tail_poll_interval = \"5ms\"\n" +
		"watch = false\n" +
		"log_file = \"" + filepath.Join(dir, "logtrail.log") + "\"\n" +
		"presets_path = \"" + filepath.Join(dir, "presets.toml") + "\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestNewSession_OpensAndPolls(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "game.log")
	appendLines(t, logPath, "[2024.01.15-10.00.00:000][  1]LogNet: Error: one\n[2024.01.15-10.00.01:000][  2]LogNet: Display: two\n")

	s, err := NewSession(context.Background(), Options{
		Path:         logPath,
		ConfigPath:   writeConfig(t, dir),
		Filters:      []string{"level:Error"},
		ContextLines: -1,
		Tail:         true,
	})
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if !s.Controller.IsOpen() || !s.Controller.State().IsTailing {
		t.Fatalf("controller open=%v tailing=%v, want both", s.Controller.IsOpen(), s.Controller.State().IsTailing)
	}
	if got := s.Controller.View().Len(); got != 1 {
		t.Fatalf("view length = %d, want 1", got)
	}

	appendLines(t, logPath, "[2024.01.15-10.00.02:000][  3]LogNet: Error: three\n")
	b := receive(t, s.Supervisor.Batches())
	if added := s.Controller.HandleBatch(b); added != 1 {
		t.Fatalf("HandleBatch added %d, want 1", added)
	}

	data, err := os.ReadFile(filepath.Join(dir, "logtrail.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("diagnostic log is empty, want session start entry")
	}
}

func TestNewSession_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewSession(context.Background(), Options{
		Path:         filepath.Join(dir, "nope.log"),
		ConfigPath:   writeConfig(t, dir),
		ContextLines: -1,
	})
	if !errors.Is(err, tailsource.ErrFileNotFound) {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
}
