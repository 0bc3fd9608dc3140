package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/logtrail/internal/config"
	"github.com/five82/logtrail/internal/filter"
	"github.com/five82/logtrail/internal/logging"
	"github.com/five82/logtrail/internal/presets"
	"github.com/five82/logtrail/internal/state"
	"github.com/five82/logtrail/internal/tail"
	"github.com/five82/logtrail/internal/ui"
)

// Options configure a logtrail session.
type Options struct {
	Path         string
	ConfigPath   string
	Filters      []string // predicate syntax, added to the toggle set
	Preset       string
	ContextLines int // negative keeps the preset or default
	Tail         bool
	NoWatch      bool
	LogLevel     string // overrides the configured level when set
}

// Session holds what Run wires together before handing control to the UI.
type Session struct {
	Config     config.Config
	Presets    presets.File
	Filters    *filter.Store
	Health     *state.Store
	Supervisor *Supervisor
	Controller *tail.Controller
	Logger     *logrus.Logger
	closeLog   func() error
}

// Close stops polling and releases the log file.
func (s *Session) Close() error {
	_ = s.Supervisor.Close()
	if s.closeLog != nil {
		return s.closeLog()
	}
	return nil
}

// Run opens the file and runs the TUI until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := NewSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.Run(ui.Options{
		Context:        ctx,
		Controller:     s.Controller,
		Batches:        s.Supervisor.Batches(),
		Health:         s.Health,
		StallThreshold: s.Config.StallThreshold,
		Tick:           s.Config.AutoScrollThrottle,
		Presets:        s.Presets,
		PresetsPath:    s.Config.PresetsPath,
		Logger:         s.Logger,
	})
}

// NewSession loads configuration, builds the filters, opens the file and
// starts polling it.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.LogLevel = level
	}
	if opts.NoWatch {
		cfg.Watch = false
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	saved, _ := presets.Load(cfg.PresetsPath)

	filters, err := BuildFilters(cfg.MaxContextLines, saved, opts.Preset, opts.Filters, opts.ContextLines)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	health := &state.Store{}
	sup := NewSupervisor(ctx, SupervisorOptions{
		Health:   health,
		Interval: cfg.PollInterval,
		Watch:    cfg.Watch,
		Logger:   logger,
	})

	ctrl := tail.New(tail.Options{
		Filters:            filters,
		Loop:               sup,
		BackgroundInterval: cfg.PollInterval,
		TailInterval:       cfg.TailPollInterval,
		ScrollThrottle:     cfg.AutoScrollThrottle,
		InitialLines:       cfg.InitialLines,
		Logger:             logger,
	})
	if err := ctrl.Open(opts.Path); err != nil {
		_ = sup.Close()
		_ = closer.Close()
		return nil, err
	}
	if opts.Tail {
		if err := ctrl.StartTailing(); err != nil {
			_ = sup.Close()
			_ = closer.Close()
			return nil, err
		}
	}

	logger.WithFields(logrus.Fields{
		"path":    opts.Path,
		"filters": filters.Summary(),
		"context": filters.ContextLines(),
		"watch":   cfg.Watch,
	}).Info("session started")

	return &Session{
		Config:     cfg,
		Presets:    saved,
		Filters:    filters,
		Health:     health,
		Supervisor: sup,
		Controller: ctrl,
		Logger:     logger,
		closeLog:   closer.Close,
	}, nil
}

// BuildFilters assembles the starting filter store: the named preset first,
// then the command-line filters, then an explicit context setting.
func BuildFilters(maxContext int, saved presets.File, preset string, specs []string, contextLines int) (*filter.Store, error) {
	store := filter.NewStore(maxContext)

	if name := strings.TrimSpace(preset); name != "" {
		preds, ctxLines, err := saved.Lookup(name)
		if err != nil {
			return nil, err
		}
		for _, p := range preds {
			store.Toggles().Add(p)
		}
		store.SetContextLines(ctxLines)
	}

	for _, spec := range specs {
		p, err := filter.ParsePredicate(spec)
		if err != nil {
			return nil, fmt.Errorf("--filter %q: %w", spec, err)
		}
		store.Toggles().Add(p)
	}

	if contextLines >= 0 {
		store.SetContextLines(contextLines)
	}
	return store, nil
}
