package stream

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hpcloud/tail"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/five82/logtrail/internal/filter"
	"github.com/five82/logtrail/internal/logentry"
	"github.com/five82/logtrail/internal/tailsource"
)

// Options configures a non-interactive run.
type Options struct {
	Path      string
	Filters   *filter.Store
	Follow    bool
	FromStart bool
	Out       io.Writer
	Color     bool
	Width     int
	Logger    logrus.FieldLogger
}

// Run prints the filtered contents of Path to Out. With Follow it keeps
// printing appended lines until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Filters == nil {
		opts.Filters = filter.NewStore(0)
	}
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	// Number from the physical line where reading starts.
	snap, err := tailsource.Load(opts.Path, -1)
	if err != nil {
		return err
	}
	lineNumber := 1
	whence := io.SeekStart
	if !opts.FromStart {
		lineNumber = snap.NextLine
		whence = io.SeekEnd
	}

	t, err := tail.TailFile(opts.Path, tail.Config{
		Follow:    opts.Follow,
		ReOpen:    opts.Follow,
		MustExist: true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: whence},
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("tail %s: %w", opts.Path, err)
	}
	defer t.Cleanup()

	log.WithFields(logrus.Fields{
		"path":   opts.Path,
		"follow": opts.Follow,
		"filter": opts.Filters.Summary(),
	}).Info("stream started")

	printer := NewPrinter(opts.Filters, opts.Out, opts.Color, opts.Width)
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			log.WithField("printed", printer.Printed()).Info("stream stopped")
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				log.WithField("printed", printer.Printed()).Info("stream finished")
				return nil
			}
			if line.Err != nil {
				log.WithError(line.Err).Warn("tail read failed")
				continue
			}
			n := lineNumber
			lineNumber++
			text := strings.TrimRight(line.Text, "\r")
			if text == "" {
				continue
			}
			if err := printer.Add(logentry.Parse(text, n)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
}

// TerminalOutput reports whether stdout is a terminal and its width.
// Width is 0 when it cannot be determined.
func TerminalOutput() (bool, int) {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false, 0
	}
	width, _, err := term.GetSize(int(fd))
	if err != nil {
		return true, 0
	}
	return true, width
}
