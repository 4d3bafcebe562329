// Package ui provides an optional terminal interface for watching a
// plan file.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planloop/planloop/internal/engine"
	"github.com/planloop/planloop/internal/plan"
)

const refreshInterval = 2 * time.Second

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	statusStyles = map[plan.Status]lipgloss.Style{
		plan.StatusTodo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		plan.StatusDoing:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB454")),
		plan.StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7EC699")),
		plan.StatusAborted: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
)

// filterCycle is the order the f key walks through.
var filterCycle = []plan.Status{"", plan.StatusTodo, plan.StatusDoing, plan.StatusDone, plan.StatusAborted}

// RunTUI starts the read-only plan viewer. The plan file is reloaded on
// an interval, so edits made by other processes show up live.
func RunTUI(ctx context.Context, sup engine.Supervisor, planPath string) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(newModel(sup, planPath), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tickMsg time.Time

type model struct {
	sup      engine.Supervisor
	planPath string
	items    []plan.Item
	counts   map[plan.Status]int
	loadErr  error
	filter   int // index into filterCycle
}

func newModel(sup engine.Supervisor, planPath string) *model {
	m := &model{sup: sup, planPath: planPath}
	m.reload()
	return m
}

func (m *model) reload() {
	res, err := m.sup.Snapshot()
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.items = res.Items
	doc := plan.Document{Items: res.Items}
	m.counts = doc.Counts()
}

func (m *model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.reload()
		case "f":
			m.filter = (m.filter + 1) % len(filterCycle)
		}
	case tickMsg:
		m.reload()
		return m, tick()
	}
	return m, nil
}

func (m *model) View() string {
	s := headerStyle.Render("plan "+m.planPath) + "\n"
	s += m.summaryLine() + "\n\n"

	if m.loadErr != nil {
		s += errStyle.Render(fmt.Sprintf("error: %v", m.loadErr)) + "\n"
	}

	filter := filterCycle[m.filter]
	shown := 0
	for _, item := range m.items {
		if filter != "" && item.Status != filter {
			continue
		}
		style := statusStyles[item.Status]
		s += style.Render(fmt.Sprintf("  %s [%s][%d] %s", statusIcon(item.Status), item.Status, item.ID, item.Title)) + "\n"
		shown++
	}
	if shown == 0 {
		s += footerStyle.Render("  (no items)") + "\n"
	}

	label := "all"
	if filter != "" {
		label = string(filter)
	}
	s += "\n" + footerStyle.Render(fmt.Sprintf("filter: %s | f filter | r refresh | q quit", label))
	return s
}

func (m *model) summaryLine() string {
	return footerStyle.Render(fmt.Sprintf(
		"todo %d | doing %d | done %d | aborted %d",
		m.counts[plan.StatusTodo],
		m.counts[plan.StatusDoing],
		m.counts[plan.StatusDone],
		m.counts[plan.StatusAborted],
	))
}

func statusIcon(s plan.Status) string {
	switch s {
	case plan.StatusDoing:
		return ">"
	case plan.StatusDone:
		return "*"
	case plan.StatusAborted:
		return "x"
	default:
		return "-"
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
