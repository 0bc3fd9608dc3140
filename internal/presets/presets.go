// Package presets persists named filter sets and UI preferences.
// They are stored in ~/.config/logtrail/presets.toml.
package presets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/logtrail/internal/config"
	"github.com/five82/logtrail/internal/filter"
)

// ErrUnknownPreset is returned when a named preset is not in the file.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a saved toggle set plus its context setting.
type Preset struct {
	Filters      []string `toml:"filters"`
	ContextLines int      `toml:"context_lines"`
}

// File is the on-disk document.
type File struct {
	Theme   string            `toml:"theme"`
	Presets map[string]Preset `toml:"presets"`
}

const (
	defaultPresetsPath = "~/.config/logtrail/presets.toml"
	defaultTheme       = "Dracula"
)

// DefaultPath returns the default presets file path.
func DefaultPath() string {
	return defaultPresetsPath
}

func defaults() File {
	return File{Theme: defaultTheme, Presets: map[string]Preset{}}
}

// Load reads the presets file, falling back to an empty set if it is
// missing or unreadable.
func Load(path string) (File, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return defaults(), nil
	}

	f := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		return f, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return f, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &f); err != nil {
		return defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(f.Theme) == "" {
		f.Theme = defaultTheme
	}
	if f.Presets == nil {
		f.Presets = map[string]Preset{}
	}
	return f, nil
}

// Save writes the presets file, creating directories as needed.
func Save(path string, f File) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create presets dir: %w", err)
	}

	bytes, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal presets: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write presets: %w", err)
	}

	return nil
}

// Names lists the saved presets in sorted order.
func (f File) Names() []string {
	names := make([]string, 0, len(f.Presets))
	for name := range f.Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup parses the named preset into predicates.
func (f File) Lookup(name string) ([]filter.Predicate, int, error) {
	p, ok := f.Presets[name]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	preds, err := p.Predicates()
	if err != nil {
		return nil, 0, fmt.Errorf("preset %q: %w", name, err)
	}
	return preds, p.ContextLines, nil
}

// Put stores the active toggles and context of store under name.
func (f *File) Put(name string, store *filter.Store) {
	if f.Presets == nil {
		f.Presets = map[string]Preset{}
	}
	var specs []string
	for _, item := range store.Toggles().Items() {
		if item.Active {
			specs = append(specs, item.Predicate.String())
		}
	}
	for _, item := range store.Expression().Items() {
		specs = append(specs, item.Predicate.String())
	}
	f.Presets[name] = Preset{Filters: specs, ContextLines: store.ContextLines()}
}

// Predicates parses the preset's filter strings.
func (p Preset) Predicates() ([]filter.Predicate, error) {
	preds := make([]filter.Predicate, 0, len(p.Filters))
	for _, spec := range p.Filters {
		pred, err := filter.ParsePredicate(spec)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	return preds, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPresetsPath)
	}
	return config.ExpandPath(path)
}
