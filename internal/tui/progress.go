package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxLogLines        = 25
	maxVisibleLogs     = 5
	defaultRenderWidth = 80
)

var (
	colorPrimary = lipgloss.Color("62")
	colorMuted   = lipgloss.Color("241")
	colorAccent  = lipgloss.Color("204")
	colorBorder  = lipgloss.Color("238")
)

var (
	spinnerStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	titleStyle    = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	failedStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	emptyStyle    = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	logTitleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	logBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// ProbeDoneMsg reports one settled probe.
type ProbeDoneMsg struct {
	Target string
	OK     bool
}

// FinishedMsg ends the progress program.
type FinishedMsg struct{}

type logMsg string

// Progress is the spinner shown on stderr while probes are in flight.
type Progress struct {
	spinner spinner.Model
	started time.Time
	width   int

	total   int
	done    int
	failed  int
	current string

	debug  bool
	logCh  <-chan string
	logs   []string
	logMax int

	finished    bool
	interrupted bool
}

func NewProgress(total int, debug bool, logCh <-chan string) Progress {
	return Progress{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(spinnerStyle),
		),
		started: time.Now(),
		width:   defaultRenderWidth,
		total:   total,
		debug:   debug,
		logCh:   logCh,
		logMax:  maxLogLines,
	}
}

func (m Progress) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.logCh != nil {
		cmds = append(cmds, listenLogs(m.logCh))
	}
	return tea.Batch(cmds...)
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case ProbeDoneMsg:
		m.done++
		if !msg.OK {
			m.failed++
		}
		m.current = msg.Target
		return m, nil
	case logMsg:
		m.appendLog(string(msg))
		return m, listenLogs(m.logCh)
	case FinishedMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

// Interrupted reports whether the user asked to stop before all probes settled.
func (m Progress) Interrupted() bool {
	return m.interrupted
}

func (m Progress) Done() int {
	return m.done
}

func listenLogs(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return logMsg(msg)
	}
}

func (m *Progress) appendLog(entry string) {
	if entry == "" {
		return
	}
	m.logs = append(m.logs, entry)
	if m.logMax > 0 && len(m.logs) > m.logMax {
		m.logs = m.logs[len(m.logs)-m.logMax:]
	}
}
