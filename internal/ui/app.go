package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/five82/fkconsole/internal/console"
	"github.com/five82/fkconsole/internal/entry"
	"github.com/five82/fkconsole/internal/prefs"
)

// frameInterval paces redraws while the panel slides in or out.
const frameInterval = 16 * time.Millisecond

// Options configures the UI.
type Options struct {
	Console   *console.Console
	ThemeName string
	PrefsPath string
	Logger    *log.Logger
	Now       func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	console   *console.Console
	prefsPath string
	logger    *log.Logger
	now       func() time.Time

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	overlay  Overlay
	width    int
	height   int
	ready    bool
	showHelp bool

	// Log state
	entries  []entry.Entry
	rendered []string
	viewport viewport.Model
	follow   bool
	demoSeq  int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return Model{
		console:   opts.Console,
		prefsPath: prefsPath,
		logger:    logger,
		now:       now,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		viewport:  viewport.New(0, 0),
		follow:    true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewport()
		return m, nil

	case entryMsg:
		m.entries = append(m.entries, msg.entry)
		m.rendered = append(m.rendered, m.console.Render(msg.entry).ANSI())
		m.refreshViewport()
		return m, nil

	case clearedMsg:
		m.entries = nil
		m.rendered = nil
		m.follow = true
		m.refreshViewport()
		return m, nil

	case showMsg:
		if m.overlay.Show(m.now()) {
			return m, frameCmd()
		}
		return m, nil

	case hideMsg:
		if m.overlay.Hide(m.now()) {
			return m, frameCmd()
		}
		return m, nil

	case frameMsg:
		if !m.overlay.Animating() || m.overlay.Advance(time.Time(msg)) {
			return m, nil
		}
		return m, frameCmd()

	case restyleMsg:
		m.rerender()
		return m, nil

	case tea.BlurMsg:
		m.console.HandleLifecycle(console.ResignActive)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	styles := m.theme.Styles()
	panel := m.panelHeight(m.now())
	host := m.renderHost(styles, m.height-panel)
	if panel == 0 {
		return host
	}
	return lipgloss.JoinVertical(lipgloss.Left, host, m.renderPanel(styles, panel))
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.console.HandleLifecycle(console.Terminate)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Suspend):
		m.console.HandleLifecycle(console.EnterBackground)
		return m, tea.Suspend

	case key.Matches(msg, m.keys.Toggle):
		switch m.overlay.Phase() {
		case Hidden:
			m.console.Show()
		case Shown:
			m.console.Hide()
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.resizeViewport()
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.console.Clear()
		return m, nil

	case key.Matches(msg, m.keys.ToggleMarks):
		m.console.SetMarkMode(!m.console.Style().MarkMode)
		m.rerender()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.EmitVerbose):
		m.emit(entry.Verbose)
		return m, nil
	case key.Matches(msg, m.keys.EmitDebug):
		m.emit(entry.Debug)
		return m, nil
	case key.Matches(msg, m.keys.EmitInfo):
		m.emit(entry.Info)
		return m, nil
	case key.Matches(msg, m.keys.EmitWarning):
		m.emit(entry.Warning)
		return m, nil
	case key.Matches(msg, m.keys.EmitError):
		m.emit(entry.Error)
		return m, nil
	}

	if m.overlay.Phase() == Shown {
		m.handleScrollKey(msg)
	}
	return m, nil
}

func (m *Model) handleScrollKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.follow = true
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		m.follow = m.viewport.AtBottom()
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		m.follow = false
	}
}

func (m *Model) emit(level entry.Level) {
	m.demoSeq++
	m.console.Log(level, fmt.Sprintf("demo %s message #%d", level, m.demoSeq), entry.Caller(0))
}

func (m *Model) savePrefs() {
	theme, marks := m.theme.Name, m.console.Style().MarkMode
	err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) {
		p.Theme = theme
		p.ShowMarks = marks
	})
	if err != nil {
		m.logger.Debug("save prefs", "err", err)
	}
}

// rerender redraws every entry with the console's current style.
func (m *Model) rerender() {
	m.rendered = make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		m.rendered = append(m.rendered, m.console.Render(e).ANSI())
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(strings.Join(m.rendered, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) resizeViewport() {
	full := m.fullPanelHeight()
	// Border, title and help rows.
	chrome := 3 + lipgloss.Height(m.help.View(m.keys))
	m.viewport.Width = max(m.width-2, 0)
	m.viewport.Height = max(full-chrome, 1)
	m.help.Width = m.viewport.Width
	m.refreshViewport()
}

func (m Model) fullPanelHeight() int {
	h := m.height * 2 / 3
	if h < 6 {
		h = min(6, m.height)
	}
	return h
}

func (m Model) panelHeight(now time.Time) int {
	return int(m.overlay.Extent(now) * float64(m.fullPanelHeight()))
}

func (m Model) renderHost(styles Styles, height int) string {
	if height <= 0 {
		return ""
	}
	persist := styles.WarningText.Render("off")
	if m.console.PersistenceEnabled() {
		persist = styles.AccentText.Render("on")
	}
	dropped := styles.MutedText.Render("0")
	if n := m.console.DroppedRenders(); n > 0 {
		dropped = styles.DangerText.Render(fmt.Sprint(n))
	}

	lines := []string{
		styles.AccentText.Bold(true).Render("fkconsole"),
		"",
		fmt.Sprintf("entries %s   dropped renders %s   persistence %s   console %s",
			styles.Text.Render(fmt.Sprint(len(m.entries))), dropped, persist,
			styles.MutedText.Render(m.overlay.Phase().String())),
		"",
		styles.MutedText.Render("press ` to toggle the console, v/d/i/w/e to log, ? for help"),
	}
	return styles.Host.
		Width(m.width).
		Height(height).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderPanel(styles Styles, height int) string {
	title := styles.Title.Render(fmt.Sprintf("Console · %d entries · %s", len(m.entries), m.theme.Name))
	if !m.follow {
		title += styles.WarningText.Render(" (paused)")
	}
	body := lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), m.help.View(m.keys))
	panel := styles.Panel.Width(max(m.width-2, 0)).Render(body)

	// Slide in from the bottom edge: keep only the top rows that fit.
	lines := strings.Split(panel, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// Messages

type frameMsg time.Time

type restyleMsg struct{}

// Commands

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Program runs the overlay as the console's sink.
type Program struct {
	program *tea.Program
	console *console.Console
}

// NewProgram builds the overlay program. Extra tea options are appended to the
// defaults (alt screen, focus reporting).
func NewProgram(opts Options, teaOpts ...tea.ProgramOption) *Program {
	all := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}, teaOpts...)
	return &Program{
		program: tea.NewProgram(New(opts), all...),
		console: opts.Console,
	}
}

// Run attaches the overlay to the console and blocks until the user quits or
// ctx is cancelled.
func (p *Program) Run(ctx context.Context) error {
	p.console.Attach(programSink{program: p.program})
	defer p.console.SetSink(nil)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.program.Quit()
		case <-done:
		}
	}()

	_, err := p.program.Run()
	return err
}

// Release restores the terminal to its normal state without waiting for the
// event loop. Call it before exiting the process outside of Run.
func (p *Program) Release() error {
	return p.program.ReleaseTerminal()
}

// Restyle redraws every entry after the console style changed.
func (p *Program) Restyle() {
	p.program.Send(restyleMsg{})
}
