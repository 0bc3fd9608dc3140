package ui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/logtrail/internal/presets"
	"github.com/five82/logtrail/internal/state"
	"github.com/five82/logtrail/internal/tail"
	"github.com/five82/logtrail/internal/tailsource"
)

const defaultTick = 50 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context        context.Context
	Controller     *tail.Controller
	Batches        <-chan tailsource.Batch
	Health         *state.Store
	StallThreshold int
	Tick           time.Duration // drives throttled auto-scroll and health refresh
	ThemeName      string
	Presets        presets.File
	PresetsPath    string
	Logger         logrus.FieldLogger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx            context.Context
	ctrl           *tail.Controller
	batches        <-chan tailsource.Batch
	health         *state.Store
	stallThreshold int
	tick           time.Duration
	presets        presets.File
	presetsPath    string
	log            logrus.FieldLogger

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	// Prompt line
	prompt promptKind
	input  textinput.Model

	// Feedback
	flash      string
	flashIsErr bool
	healthSnap state.Snapshot
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Presets.Theme
	}

	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	ti := textinput.New()
	ti.CharLimit = 200

	return Model{
		ctx:            ctx,
		ctrl:           opts.Controller,
		batches:        opts.Batches,
		health:         opts.Health,
		stallThreshold: opts.StallThreshold,
		tick:           tick,
		presets:        opts.Presets,
		presetsPath:    opts.PresetsPath,
		log:            log,
		theme:          GetTheme(themeName),
		keys:           DefaultKeyMap(),
		help:           help.New(),
		input:          ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.tick),
	}
	if m.batches != nil {
		cmds = append(cmds, waitForBatch(m.batches))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-20)
		m.ready = true
		m.ctrl.SetViewportHeight(m.logRows())
		return m, nil

	case batchMsg:
		m.ctrl.HandleBatch(tailsource.Batch(msg))
		return m, waitForBatch(m.batches)

	case batchesClosedMsg:
		return m, nil

	case tickMsg:
		m.ctrl.Tick(time.Time(msg))
		if m.health != nil {
			m.healthSnap = m.health.Snapshot()
		}
		return m, tickCmd(m.tick)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// logRows is the number of rows available to log lines: everything except
// the status bar and the footer.
func (m Model) logRows() int {
	return max(1, m.height-2)
}

// Messages

type tickMsg time.Time

type batchMsg tailsource.Batch

type batchesClosedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForBatch(ch <-chan tailsource.Batch) tea.Cmd {
	return func() tea.Msg {
		b, ok := <-ch
		if !ok {
			return batchesClosedMsg{}
		}
		return batchMsg(b)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context ends.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
