// Package ui is the interactive runner for the roadguard tools: it shows a
// branded header while the action runs and a detail list once it finishes.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const actionTimeout = 2 * time.Minute

var (
	brandStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("63")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	detailStyle = lipgloss.NewStyle().Faint(true)
)

type doneMsg struct {
	details []string
	err     error
}

type tickMsg time.Time

type runModel struct {
	title   string
	action  func(context.Context) ([]string, error)
	started time.Time
	elapsed time.Duration
	details []string
	err     error
	done    bool
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(m.start, tick())
}

func (m runModel) start() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	details, err := m.action(ctx)
	return doneMsg{details: details, err: err}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.elapsed = time.Since(m.started)
		return m, tick()
	case doneMsg:
		m.details = msg.details
		m.err = msg.err
		m.elapsed = time.Since(m.started)
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m runModel) View() string {
	var b strings.Builder
	b.WriteString(brandStyle.Render("roadguard") + " " + titleStyle.Render(m.title) + "\n\n")
	if !m.done {
		b.WriteString(fmt.Sprintf("running... %.1fs (q to abort)\n", m.elapsed.Seconds()))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(failStyle.Render("FAILED") + fmt.Sprintf(" after %.1fs: %v\n", m.elapsed.Seconds(), m.err))
	} else {
		b.WriteString(okStyle.Render("OK") + fmt.Sprintf(" in %.1fs\n", m.elapsed.Seconds()))
	}
	for _, d := range m.details {
		b.WriteString(detailStyle.Render("  • "+d) + "\n")
	}
	return b.String()
}

// Run executes action under the interactive view and returns its outcome.
// Aborting before the action finishes reports an error rather than a partial
// result.
func Run(title string, action func(context.Context) ([]string, error)) ([]string, error) {
	m := runModel{title: title, action: action, started: time.Now()}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}
	res := final.(runModel)
	if !res.done {
		return nil, fmt.Errorf("%s aborted", title)
	}
	return res.details, res.err
}
