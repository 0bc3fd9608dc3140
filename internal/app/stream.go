package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/logtrail/internal/config"
	"github.com/five82/logtrail/internal/logging"
	"github.com/five82/logtrail/internal/presets"
	"github.com/five82/logtrail/internal/stream"
)

// StreamOptions configure a non-interactive run.
type StreamOptions struct {
	Options
	Follow    bool
	FromStart bool
}

// Stream prints the filtered file to stdout using the same configuration,
// presets and filter flags as the viewer.
func Stream(ctx context.Context, opts StreamOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.LogLevel = level
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	saved, _ := presets.Load(cfg.PresetsPath)
	filters, err := BuildFilters(cfg.MaxContextLines, saved, opts.Preset, opts.Filters, opts.ContextLines)
	if err != nil {
		return err
	}

	color, width := stream.TerminalOutput()
	return stream.Run(ctx, stream.Options{
		Path:      opts.Path,
		Filters:   filters,
		Follow:    opts.Follow,
		FromStart: opts.FromStart,
		Color:     color,
		Width:     width,
		Logger:    logger,
	})
}
