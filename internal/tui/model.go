package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/notebook"
	"github.com/vk/calcnote/internal/render"
)

// chrome is the number of rows used by the title, status and key help.
const chrome = 5

// RatesLoadedMsg reports the end of a background currency download.
type RatesLoadedMsg struct {
	Count int
	Err   error
}

// RateLoader registers currency units and reports how many it added.
type RateLoader func(ctx context.Context) (int, error)

// LoadRatesCmd runs load off the UI goroutine.
func LoadRatesCmd(ctx context.Context, load RateLoader) tea.Cmd {
	return func() tea.Msg {
		n, err := load(ctx)
		return RatesLoadedMsg{Count: n, Err: err}
	}
}

// Option configures a Model.
type Option func(*Model)

// WithRateLoader makes Init start a currency download.
func WithRateLoader(ctx context.Context, load RateLoader) Option {
	return func(m *Model) {
		m.ratesCtx = ctx
		m.loadRates = load
	}
}

// WithLogger sets the logger. Logs must not go to the terminal in use.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// Model is the bubbletea model for a notebook.
type Model struct {
	nb        *notebook.Notebook
	input     textinput.Model
	keys      keyMap
	help      help.Model
	styles    styles
	logger    *slog.Logger
	ratesCtx  context.Context
	loadRates RateLoader

	showHelp bool
	status   string
	width    int
	height   int
}

// New builds a model focused on the notebook's current line.
func New(nb *notebook.Notebook, opts ...Option) Model {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 1024
	in.Focus()

	m := Model{
		nb:     nb,
		input:  in,
		keys:   defaultKeys(),
		help:   help.New(),
		styles: defaultStyles(),
		logger: ctxlog.Discard(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.loadRates != nil {
		m.status = "Loading currency rates..."
	}
	m.focusLine(nb.Focus())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.loadRates != nil {
		cmds = append(cmds, LoadRatesCmd(m.ratesCtx, m.loadRates))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, m.width/2)
		return m, nil

	case RatesLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("Failed to load currency rates.", "error", msg.Err)
			m.status = "Currency rates unavailable"
		}
		if msg.Count > 0 {
			m.nb.Refresh()
			m.status = fmt.Sprintf("Currency rates loaded (%d units)", msg.Count)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Insert):
			i := m.nb.InsertAfter(m.nb.Focus())
			m.logger.Debug("Inserted line.", "index", i)
			return m, m.focusLine(i)
		case key.Matches(msg, m.keys.Up):
			return m, m.focusLine(m.nb.Focus() - 1)
		case key.Matches(msg, m.keys.Down):
			return m, m.focusLine(m.nb.Focus() + 1)
		case key.Matches(msg, m.keys.Delete) && m.input.Value() == "" && m.nb.Len() > 1:
			i := m.nb.Focus()
			m.nb.RemoveLine(i)
			m.logger.Debug("Removed line.", "index", i)
			return m, m.focusLine(m.nb.Focus())
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.nb.SetInput(m.nb.Focus(), after)
	}
	return m, cmd
}

// focusLine moves focus to line i and loads its text into the editor.
func (m *Model) focusLine(i int) tea.Cmd {
	i = m.nb.SetFocus(i)
	line, _ := m.nb.Line(i)
	m.input.SetValue(line.Input)
	m.input.CursorEnd()
	return m.input.Focus()
}

// View implements tea.Model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = render.DefaultWidth
	}
	lines := m.nb.Lines()
	focus := m.nb.Focus()
	numWidth := render.NumberWidth(len(lines))

	var sb strings.Builder
	sb.WriteString(m.styles.title.Render("calcnote"))
	sb.WriteString("\n\n")

	var panel string
	if m.showHelp {
		panel = m.styles.panel.Render(render.Help(max(20, width-4)))
	}

	start, end := window(len(lines), focus, m.rows(panel))
	for i := start; i < end; i++ {
		sb.WriteString(m.row(i, lines[i], i == focus, numWidth, width))
		sb.WriteByte('\n')
		if i == focus && lines[i].HasError && lines[i].ErrorMessage != "" {
			indent := strings.Repeat(" ", numWidth+3)
			tip := m.styles.tooltip.Render(lines[i].ErrorMessage)
			for _, l := range strings.Split(tip, "\n") {
				sb.WriteString(indent + l + "\n")
			}
		}
	}

	if panel != "" {
		sb.WriteString(panel)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	if m.status != "" {
		sb.WriteString(m.styles.status.Render(m.status))
		sb.WriteByte('\n')
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// rows is how many notebook rows fit on screen, or 0 when unknown.
func (m Model) rows(panel string) int {
	if m.height <= 0 {
		return 0
	}
	// Room for a three-row error tooltip.
	n := m.height - chrome - 3
	if panel != "" {
		n -= lipgloss.Height(panel)
	}
	return max(1, n)
}

// window returns the visible range [start, end) keeping focus in view.
func window(total, focus, rows int) (int, int) {
	if rows <= 0 || total <= rows {
		return 0, total
	}
	start := max(0, focus-rows/2)
	start = min(start, total-rows)
	return start, start + rows
}

func (m Model) row(i int, line notebook.Line, focused bool, numWidth, width int) string {
	num, input, result, pad := render.Row(i+1, line, numWidth, width)

	var sb strings.Builder
	if focused {
		sb.WriteString(m.styles.focused.Render(num + " ▸ "))
		input = m.input.View()
		pad = width - numWidth - 3 - lipgloss.Width(input) - lipgloss.Width(result)
	} else {
		sb.WriteString(m.styles.number.Render(num + " │ "))
		if notebook.IsComment(line.Input) {
			input = m.styles.comment.Render(input)
		}
	}
	sb.WriteString(input)
	if result != "" {
		sb.WriteString(strings.Repeat(" ", max(1, pad)))
		if line.HasError {
			sb.WriteString(m.styles.errResult.Render(result))
		} else {
			sb.WriteString(m.styles.result.Render(result))
		}
	}
	return sb.String()
}
