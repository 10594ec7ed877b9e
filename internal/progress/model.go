// Package progress shows generation progress in the terminal while a
// threshold map is being built.
package progress

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bluenoise/pkg/bluenoise"
)

// ErrCancelled is reported when the user quits before the job finishes.
var ErrCancelled = errors.New("generation was cancelled")

// Job runs a generation, reporting through obs.
type Job func(obs bluenoise.Observer) error

// Status is the latest progress reported by the job.
type Status struct {
	Phase  bluenoise.Phase
	Ranked int
	Total  int
}

// statusMsg wraps a Status for the Bubbletea message loop.
type statusMsg Status

// doneMsg signals the job goroutine finished.
type doneMsg struct{ err error }

// Model is the Bubbletea model for the generation screen.
type Model struct {
	title    string
	job      Job
	spinner  spinner.Model
	progress progress.Model
	status   Status
	err      error
	finished bool
	quitting bool
	statusCh chan Status
}

// New creates a model that runs job when the program starts.
func New(title string, job Job) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#1F4FFF", "#8CC8FF"),
		progress.WithoutPercentage(),
	)

	return Model{
		title:    title,
		job:      job,
		spinner:  s,
		progress: p,
		statusCh: make(chan Status, 64),
	}
}

// Err returns the job's error after the program finishes, or ErrCancelled.
func (m Model) Err() error {
	if !m.finished {
		return ErrCancelled
	}
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.start(),
		m.waitForStatus(),
	)
}

func (m Model) start() tea.Cmd {
	statusCh := m.statusCh
	job := m.job
	return func() tea.Msg {
		err := job(newChannelObserver(statusCh))
		close(statusCh)
		return doneMsg{err: err}
	}
}

func (m Model) waitForStatus() tea.Cmd {
	statusCh := m.statusCh
	return func() tea.Msg {
		s, ok := <-statusCh
		if !ok {
			return nil
		}
		return statusMsg(s)
	}
}

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			return m, tea.Quit
		}

	case statusMsg:
		m.status = Status(msg)
		return m, m.waitForStatus()

	case doneMsg:
		m.finished = true
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 8
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render(m.title) + "\n\n")

	if m.status.Total > 0 {
		pct := float64(m.status.Ranked) / float64(m.status.Total)
		b.WriteString("  " + statusStyle.Render(capitalize(m.status.Phase.String())+"...") + "\n")
		b.WriteString("  " + m.progress.ViewAs(pct) + fmt.Sprintf("  %.0f%%", pct*100) + "\n")
		b.WriteString("  " + helpStyle.Render(fmt.Sprintf("%d / %d cells ranked", m.status.Ranked, m.status.Total)) + "\n")
	} else {
		b.WriteString("  " + m.spinner.View() + " " + statusStyle.Render(capitalize(m.status.Phase.String())+"...") + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// channelObserver forwards generator callbacks to the UI. Sends never block
// the generator; a dropped update is superseded by the next one.
type channelObserver struct {
	ch     chan<- Status
	status Status
	last   int
}

func newChannelObserver(ch chan<- Status) *channelObserver {
	return &channelObserver{ch: ch, last: -1}
}

func (o *channelObserver) send() {
	select {
	case o.ch <- o.status:
	default:
	}
}

func (o *channelObserver) PhaseStarted(p bluenoise.Phase) {
	o.status.Phase = p
	o.send()
}

func (o *channelObserver) Progress(ranked, total int) {
	o.status.Ranked, o.status.Total = ranked, total
	if total <= 0 {
		return
	}
	// One update per percent is enough for the bar.
	if pct := ranked * 100 / total; pct != o.last {
		o.last = pct
		o.send()
	}
}

func (o *channelObserver) PhaseDone(bluenoise.PhaseStats) {}
