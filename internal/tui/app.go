// Package tui is the interactive keep/discard review of a detected change set.
//
// The App model follows the bubbletea loop: key presses arrive as messages,
// Update turns them into session calls, View renders the current state.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinwang15/sheetmerge"
	"github.com/kevinwang15/sheetmerge/internal/logger"
	"github.com/kevinwang15/sheetmerge/internal/notify"
)

type viewMode int

const (
	modeList viewMode = iota
	modeDiff
)

// Options configures an App.
type Options struct {
	// Output is where w exports the final document.
	Output string
	// Decisions, when set, is where s saves the keep/discard decisions.
	Decisions string
	Diff      sheetmerge.DiffOptions
	Notifier  *notify.Notifier
	Logger    logger.Logger
}

type exportedMsg struct {
	path    string
	pending bool
	err     error
}

type savedMsg struct {
	path string
	err  error
}

// App is the review model. It drives a Session that already holds a detection.
type App struct {
	session *sheetmerge.Session
	opts    Options
	keys    keyMap
	help    help.Model
	diff    viewport.Model

	changes []sheetmerge.Change
	cursor  int
	offset  int
	mode    viewMode

	status string
	err    error

	width  int
	height int
}

// NewApp returns a review model over s.
func NewApp(s *sheetmerge.Session, opts Options) *App {
	if opts.Output == "" {
		opts.Output = sheetmerge.DefaultExportName
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.New()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewLogger(logger.TestConfig())
	}
	a := &App{
		session: s,
		opts:    opts,
		keys:    defaultKeyMap(),
		help:    help.New(),
		diff:    viewport.New(80, 20),
		changes: s.Changes(),
	}
	a.status = opts.Notifier.Changes(s.ChangeSet())
	return a
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, a *App) error {
	_, err := tea.NewProgram(a, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.diff.Width = msg.Width
		a.diff.Height = max(msg.Height-4, 1)
		return a, nil
	case exportedMsg:
		id := "exported"
		if msg.pending {
			id = "exported_pending"
		}
		a.setResult(msg.err, id, msg.path)
		return a, nil
	case savedMsg:
		a.setResult(msg.err, "decisions_saved", msg.path)
		return a, nil
	case tea.KeyMsg:
		if a.mode == modeDiff {
			return a.updateDiff(msg)
		}
		return a.updateList(msg)
	}
	return a, nil
}

func (a *App) setResult(err error, id, path string) {
	if err != nil {
		a.err = err
		a.status = ""
		a.opts.Logger.Error("review action failed", "err", err)
		return
	}
	a.err = nil
	a.status = a.opts.Notifier.Message(id, map[string]any{"Path": path}, -1)
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.changes)-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Toggle):
		if len(a.changes) > 0 {
			path := a.changes[a.cursor].Path
			a.session.Toggle(path)
			a.changes = a.session.Changes()
			a.opts.Logger.Debug("toggled change", "path", path, "keep", a.changes[a.cursor].Keep)
		}
	case key.Matches(msg, a.keys.Apply):
		if _, err := a.session.Apply(); err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.status = a.opts.Notifier.Message("final_updated", nil, -1)
	case key.Matches(msg, a.keys.Diff):
		a.openDiff()
	case key.Matches(msg, a.keys.Export):
		return a, a.exportCmd()
	case key.Matches(msg, a.keys.Save):
		if a.opts.Decisions != "" {
			return a, a.saveCmd()
		}
	}
	a.scrollToCursor()
	return a, nil
}

func (a *App) updateDiff(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Diff):
		a.mode = modeList
		return a, nil
	}
	var cmd tea.Cmd
	a.diff, cmd = a.diff.Update(msg)
	return a, cmd
}

// openDiff applies the current decisions and shows the result against the original.
func (a *App) openDiff() {
	if _, err := a.session.Apply(); err != nil {
		a.err = err
		return
	}
	diff, err := a.session.Diff(a.opts.Diff)
	if err != nil {
		a.err = err
		return
	}
	if diff == "" {
		diff = a.opts.Notifier.Message("no_changes", nil, -1)
	}
	a.diff.SetContent(colorDiff(diff, a.opts.Diff.SideBySide))
	a.diff.GotoTop()
	a.mode = modeDiff
}

func (a *App) exportCmd() tea.Cmd {
	s, path := a.session, a.opts.Output
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{path: path, err: fmt.Errorf("sheetmerge: export: %w", err)}
		}
		pending := s.Pending()
		err = s.Export(f)
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("sheetmerge: export: %w", cerr)
		}
		return exportedMsg{path: path, pending: pending, err: err}
	}
}

func (a *App) saveCmd() tea.Cmd {
	s, path := a.session, a.opts.Decisions
	return func() tea.Msg {
		return savedMsg{path: path, err: sheetmerge.WriteDecisionsFile(path, s.ChangeSet())}
	}
}

// listHeight is the number of change rows that fit between header and footer.
func (a *App) listHeight() int {
	if a.height <= 0 {
		return len(a.changes)
	}
	return max(a.height-5, 1)
}

func (a *App) scrollToCursor() {
	h := a.listHeight()
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if a.cursor >= a.offset+h {
		a.offset = a.cursor - h + 1
	}
}

func (a *App) View() string {
	if a.mode == modeDiff {
		return a.diff.View() + "\n" + a.help.ShortHelpView([]key.Binding{a.keys.Up, a.keys.Down, a.keys.Back, a.keys.Quit})
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("sheetmerge review"))
	b.WriteString("\n\n")

	end := min(a.offset+a.listHeight(), len(a.changes))
	for i := a.offset; i < end; i++ {
		b.WriteString(a.renderChange(i))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if a.err != nil {
		b.WriteString(errorStyle.Render(a.opts.Notifier.Error(a.err)))
	} else {
		b.WriteString(statusStyle.Render(a.status))
	}
	b.WriteByte('\n')
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a *App) renderChange(i int) string {
	c := a.changes[i]
	mark, style := "[x]", keptStyle
	if !c.Keep {
		mark, style = "[ ]", discardStyle
	}
	prefix := "  "
	if i == a.cursor {
		prefix = cursorStyle.Render("> ")
	}
	line := fmt.Sprintf("%s%s %s  %s → %s",
		prefix,
		mark,
		style.Render(c.Path),
		oldValueStyle.Render(sheetmerge.FormatValue(c.OldValue, c.HadOld)),
		newValueStyle.Render(sheetmerge.FormatValue(c.NewValue, true)),
	)
	if a.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(a.width).Render(line)
	}
	return line
}

func colorDiff(diff string, sideBySide bool) string {
	if sideBySide {
		return diff
	}
	lines := strings.Split(diff, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			lines[i] = titleStyle.Render(l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = hunkStyle.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = addLineStyle.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = delLineStyle.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
