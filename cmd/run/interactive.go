package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/async-bridge/bridge"
	"github.com/wippyai/async-bridge/sched"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	cancelledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD580"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type taskRow struct {
	id     bridge.TaskID
	desc   string
	status bridge.Status
	detail string
}

type monitorModel struct {
	ctx      *bridge.Context
	spin     spinner.Model
	rows     []taskRow
	selected int
	seq      int
	err      error
}

type outcomeMsg struct {
	id  bridge.TaskID
	out bridge.Outcome
}

func newMonitorModel(workers int) (*monitorModel, error) {
	ctx, err := bridge.New(bridge.Config{
		Scheduler: sched.Config{Workers: workers},
	})
	if err != nil {
		return nil, err
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = runningStyle

	return &monitorModel{ctx: ctx, spin: sp}, nil
}

func (m *monitorModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m *monitorModel) submit(desc string, op func() (*bridge.Future, bridge.TaskID, error)) tea.Cmd {
	fut, id, err := op()
	if err != nil {
		m.err = err
		return nil
	}
	m.rows = append(m.rows, taskRow{id: id, desc: desc, status: bridge.StatusRunning})
	return func() tea.Msg {
		out, err := fut.Await(context.Background())
		if err != nil {
			return outcomeMsg{id: id, out: bridge.Outcome{Status: bridge.StatusFailed}}
		}
		return outcomeMsg{id: id, out: out}
	}
}

func (m *monitorModel) spawn(desc string, delay time.Duration) tea.Cmd {
	m.seq++
	label := fmt.Sprintf("%s-%d", desc, m.seq)
	return m.submit(label, func() (*bridge.Future, bridge.TaskID, error) {
		id, fut, err := m.ctx.Spawn(sleepOp(delay))
		return fut, id, err
	})
}

func (m *monitorModel) spawnDerive() tea.Cmd {
	m.seq++
	label := fmt.Sprintf("derive-%d", m.seq)
	return m.submit(label, func() (*bridge.Future, bridge.TaskID, error) {
		id, fut, err := m.ctx.Spawn(deriveOp(label))
		return fut, id, err
	})
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.ctx.Close()
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}

		case "s":
			return m, m.spawn("sleep", 3*time.Second)

		case "l":
			return m, m.spawn("long", time.Hour)

		case "d":
			return m, m.spawnDerive()

		case "c":
			if m.selected < len(m.rows) {
				m.ctx.Cancel(m.rows[m.selected].id)
			}
		}

	case outcomeMsg:
		for i := range m.rows {
			if m.rows[i].id == msg.id {
				m.rows[i].status = msg.out.Status
				switch msg.out.Status {
				case bridge.StatusCompleted:
					m.rows[i].detail = fmt.Sprintf("%v", msg.out.Value)
				case bridge.StatusFailed:
					if msg.out.Err != nil {
						m.rows[i].detail = string(msg.out.Err.Kind)
					}
				}
				break
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *monitorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Async Bridge Monitor"))
	stats := m.ctx.SchedulerStats()
	b.WriteString(fmt.Sprintf("  in-flight %d  queued %d  completed %d\n\n",
		m.ctx.InFlight(), stats.Queued, stats.Completed))

	if m.err != nil {
		b.WriteString(failedStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(helpStyle.Render("No tasks yet."))
		b.WriteString("\n")
	}

	for i, r := range m.rows {
		line := fmt.Sprintf("%-12s %s", r.desc, m.renderStatus(r))
		cursor := "  "
		if i == m.selected {
			cursor = "> "
			b.WriteString(selectedStyle.Render(cursor + line))
		} else {
			b.WriteString(cursor + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s sleep • l long • d derive • c cancel • ↑/↓ select • q quit"))
	return b.String()
}

func (m *monitorModel) renderStatus(r taskRow) string {
	switch r.status {
	case bridge.StatusCompleted:
		return completedStyle.Render("completed " + r.detail)
	case bridge.StatusFailed:
		return failedStyle.Render("failed " + r.detail)
	case bridge.StatusCancelled:
		return cancelledStyle.Render("cancelled")
	default:
		return m.spin.View() + runningStyle.Render("running")
	}
}

func runInteractive(workers int) error {
	m, err := newMonitorModel(workers)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
