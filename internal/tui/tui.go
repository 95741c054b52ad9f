package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/handiism/flags-downloader/internal/app"
	"github.com/handiism/flags-downloader/internal/config"
	"github.com/handiism/flags-downloader/internal/model"
	prog "github.com/handiism/flags-downloader/internal/progress"
	"github.com/handiism/flags-downloader/internal/summary"
	"github.com/handiism/flags-downloader/internal/supervisor"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logger    *zap.Logger
	logs      []supervisor.ProgressEvent
	err       error

	// Batch context
	ctx        context.Context
	cancel     context.CancelFunc
	cancelling bool

	// Shared with the running batch
	counter *prog.Counter
	events  *eventLog

	keys   []string
	result app.Result

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, logger *zap.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "BR CN US (empty for the 20 most populous)"
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 50

	if settings == nil {
		settings = config.DefaultSettings()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  bar,
		settings:  settings,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		counter:   &prog.Counter{},
		events:    &eventLog{},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// DoneMsg is sent when the batch finishes or is cancelled.
	DoneMsg struct {
		Result app.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading && !m.cancelling {
				m.cancelling = true
				m.cancel()
			}
			return m, nil

		case "enter":
			if m.state == StateInput {
				m.keys = app.Keys(strings.Fields(m.textInput.Value()))
				m.state = StateDownloading
				return m, tea.Batch(m.startBatch(), m.tickProgress())
			}

		case "alt+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}
			return m, nil

		case "alt+n":
			if m.state == StateInput {
				m.settings.CountryNames = !m.settings.CountryNames
			}
			return m, nil

		case "alt+j":
			if m.state == StateInput {
				m.settings.ConvertToJPEG = !m.settings.ConvertToJPEG
			}
			return m, nil

		case "up":
			if m.state == StateInput && m.settings.Concurrency < m.settings.MaxConcurrency {
				m.settings.Concurrency++
			}
			return m, nil

		case "down":
			if m.state == StateInput && m.settings.Concurrency > 1 {
				m.settings.Concurrency--
			}
			return m, nil

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new batch
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.keys = nil
				m.result = app.Result{}
				m.cancelling = false
				m.counter.Reset()
				m.events.reset()
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case DoneMsg:
		m.logs = m.events.recent()
		m.result = msg.Result
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateDownloading {
			m.logs = m.events.recent()
			cmds = append(cmds, m.progress.SetPercent(m.counter.Fraction()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// startBatch runs the batch in the background.
func (m Model) startBatch() tea.Cmd {
	settings := *m.settings
	ctx, keys := m.ctx, m.keys
	hooks := app.Hooks{
		Verbose:  m.verbose,
		Reporter: m.counter,
		OnEvent:  m.events.add,
		Logger:   m.logger,
	}

	return func() tea.Msg {
		res, err := app.Run(ctx, &settings, keys, hooks)
		return DoneMsg{Result: res, Err: err}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Flags Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download country flags concurrently"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func check(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter country codes:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Name files after the country (alt+n)\n", check(m.settings.CountryNames)))
	b.WriteString(fmt.Sprintf("  %s Convert to JPEG (alt+j)\n", check(m.settings.ConvertToJPEG)))
	b.WriteString(fmt.Sprintf("  %s One line per flag (alt+v)\n", check(m.verbose)))
	b.WriteString(fmt.Sprintf("  Concurrency: %d (up/down)\n", m.settings.Concurrency))
	b.WriteString("\n")

	dest := m.settings.DestDir
	if m.settings.StoreURL != "" {
		dest = m.settings.StoreURL
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Source: %s", m.settings.BaseURL)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Destination: %s", dest)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.cancelling {
		b.WriteString(warningStyle.Render("Cancelling..."))
	} else {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf(
			"Downloading %d flag(s), %d at a time",
			len(m.keys), m.settings.EffectiveConcurrency(len(m.keys)),
		)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n")

	completed, total := m.counter.Snapshot()
	b.WriteString(infoStyle.Render(fmt.Sprintf("Flags: %d/%d", completed, total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	title := "Download complete"
	if m.result.Cancelled {
		title = "Cancelled"
	}

	var counts strings.Builder
	for _, s := range model.Statuses {
		counts.WriteString(fmt.Sprintf("%-10s %d\n", s.String()+":", m.result.Tally.Count(s)))
	}

	b.WriteString(boxStyle.Render(fmt.Sprintf("%s\n\n%s\n%s",
		title,
		strings.TrimRight(counts.String(), "\n"),
		summary.Line(m.result.Tally, m.result.Elapsed),
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case supervisor.LevelError:
			style = errorStyle
			prefix = "✗"
		case supervisor.LevelWarning:
			style = warningStyle
			prefix = "!"
		case supervisor.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case supervisor.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • alt+n: names • alt+j: jpeg • alt+v: verbose • esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new batch • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.cancel()
	}
	return err
}
