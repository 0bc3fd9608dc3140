package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/logtrail/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logtrail: %v\n", err)
		return 1
	}
	return 0
}

type commonFlags struct {
	configPath   string
	filters      []string
	preset       string
	contextLines int
	logLevel     string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&f.configPath, "config", "", "config file (default ~/.config/logtrail/config.toml)")
	flags.StringArrayVar(&f.filters, "filter", nil, "add a filter, e.g. level:Error, logger~Net, frame>100 (repeatable)")
	flags.StringVar(&f.preset, "preset", "", "start from a saved filter preset")
	flags.IntVar(&f.contextLines, "context", 0, "context lines around matches")
	flags.StringVar(&f.logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
}

func (f *commonFlags) options(cmd *cobra.Command, path string) app.Options {
	contextLines := -1
	if cmd.Flags().Changed("context") {
		contextLines = f.contextLines
	}
	return app.Options{
		Path:         path,
		ConfigPath:   f.configPath,
		Filters:      f.filters,
		Preset:       f.preset,
		ContextLines: contextLines,
		LogLevel:     f.logLevel,
	}
}

func newRootCmd() *cobra.Command {
	var (
		common  commonFlags
		tailing bool
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "logtrail <file>",
		Short: "Filter and follow engine logs in the terminal",
		Long: `logtrail opens a log file in an interactive viewer. New lines are picked up
as the file grows; filters narrow the view with optional context around each
match, and tail mode keeps the newest line in view.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := common.options(cmd, args[0])
			opts.Tail = tailing
			opts.NoWatch = noWatch
			return app.Run(cmd.Context(), opts)
		},
	}
	common.register(cmd)
	cmd.Flags().BoolVarP(&tailing, "tail", "f", false, "start in tail mode")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "poll only, without filesystem notifications")

	cmd.AddCommand(newStreamCmd(&common))
	return cmd
}

func newStreamCmd(common *commonFlags) *cobra.Command {
	var follow, fromStart bool

	cmd := &cobra.Command{
		Use:   "stream <file>",
		Short: "Print filtered lines to stdout",
		Long: `stream prints the lines of a log file that pass the filters, numbered by
their line in the file, with grep-style context. By default it starts at the
end of the file; use --from-start to print existing lines first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Stream(cmd.Context(), app.StreamOptions{
				Options:   common.options(cmd, args[0]),
				Follow:    follow,
				FromStart: fromStart,
			})
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", true, "keep printing appended lines")
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "print the existing contents first")
	return cmd
}
