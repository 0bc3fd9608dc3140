package presets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/logtrail/internal/filter"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", f.Theme, defaultTheme)
	}
	if len(f.Presets) != 0 {
		t.Fatalf("Presets = %v, want none", f.Presets)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "logtrail")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	body := `theme = "Slate"

[presets.errors]
filters = ["level:Error", "logger~net"]
context_lines = 3
`
	if err := os.WriteFile(filepath.Join(dir, "presets.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", f.Theme, "Slate")
	}
	preds, ctx, err := f.Lookup("errors")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if ctx != 3 {
		t.Fatalf("context = %d, want 3", ctx)
	}
	want := []filter.Predicate{filter.Level("Error"), filter.LoggerLike("net")}
	if len(preds) != len(want) {
		t.Fatalf("predicates = %v, want %v", preds, want)
	}
	for i := range want {
		if preds[i] != want[i] {
			t.Fatalf("predicate[%d] = %v, want %v", i, preds[i], want[i])
		}
	}
}

func TestLookup_Errors(t *testing.T) {
	f := File{Presets: map[string]Preset{
		"broken": {Filters: []string{"frame>soon"}},
	}}

	if _, _, err := f.Lookup("missing"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("Lookup(missing) error = %v, want ErrUnknownPreset", err)
	}
	if _, _, err := f.Lookup("broken"); !errors.Is(err, filter.ErrInvalidPredicate) {
		t.Fatalf("Lookup(broken) error = %v, want ErrInvalidPredicate", err)
	}
}

func TestSave_RoundTripsPutPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "presets.toml")

	store := filter.NewStore(filter.DefaultMaxContext)
	store.Toggles().Add(filter.Level("Warning"))
	off := store.Toggles().Add(filter.Text("noise"))
	store.Toggles().Toggle(off)
	store.Expression().Add(filter.AfterFrame(10))
	store.SetContextLines(2)

	f := File{Theme: "Slate"}
	f.Put("warn", store)
	if err := Save(path, f); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, "Slate")
	}
	got := loaded.Presets["warn"]
	if got.ContextLines != 2 {
		t.Fatalf("ContextLines = %d, want 2", got.ContextLines)
	}
	wantFilters := []string{"level:Warning", "frame>10"}
	if len(got.Filters) != len(wantFilters) {
		t.Fatalf("Filters = %v, want %v", got.Filters, wantFilters)
	}
	for i := range wantFilters {
		if got.Filters[i] != wantFilters[i] {
			t.Fatalf("Filters[%d] = %q, want %q", i, got.Filters[i], wantFilters[i])
		}
	}
	if names := loaded.Names(); len(names) != 1 || names[0] != "warn" {
		t.Fatalf("Names = %v, want [warn]", names)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", f.Theme, defaultTheme)
	}
	if f.Presets == nil {
		t.Fatalf("Presets is nil, want empty map")
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	if err := os.WriteFile(path, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", f.Theme, defaultTheme)
	}
}
