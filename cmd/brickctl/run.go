package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/trajectory"
)

type RunCommand struct {
	From         string `long:"from" description:"Start position, comma separated (default all zero)"`
	Speed        int    `long:"speed" short:"s" default:"50" description:"Speed 1-100"`
	Simultaneous bool   `long:"simultaneous" description:"Move all outputs together (EV3 only)"`
	Yes          bool   `long:"yes" short:"y" description:"Skip the confirmation prompt"`
	Plain        bool   `long:"plain" description:"Print progress lines instead of the live view"`
}

const (
	maxLogs  = 5
	barWidth = 40
)

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	logBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

type runModel struct {
	runner   *trajectory.Runner
	cancel   context.CancelFunc
	state    trajectory.State
	logs     []string
	err      error
	finished bool
	quitting bool
}

// Messages from the runner
type stateMsg trajectory.State
type logMsg string
type doneMsg struct{ err error }

func waitForState(r *trajectory.Runner) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-r.States())
	}
}

func waitForLog(r *trajectory.Runner) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-r.Logs())
	}
}

func (m *runModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.runner),
		waitForLog(m.runner),
	)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.cancel()
			if m.finished {
				return m, tea.Quit
			}
			return m, nil
		}

	case stateMsg:
		m.state = trajectory.State(msg)
		return m, waitForState(m.runner)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.runner)

	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m runModel) View() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("brickctl run"))
	sb.WriteString(dimStyle.Render(fmt.Sprintf(" - %d steps", m.runner.Steps())))
	sb.WriteString("\n\n")

	sb.WriteString(renderBar(m.state.Step, m.state.Total))
	sb.WriteString(fmt.Sprintf(" %d/%d", m.state.Step, m.state.Total))
	if m.state.Waypoint != nil {
		sb.WriteString(dimStyle.Render("  at " + formatWaypoint(m.state.Waypoint)))
	}
	sb.WriteString("\n\n")

	var logLines string
	if len(m.logs) == 0 {
		logLines = dimStyle.Render("Press 'q' to stop after the current step")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logBoxStyle.Render(logLines))
	sb.WriteString("\n")

	switch {
	case m.finished && m.err != nil:
		sb.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	case m.finished:
		sb.WriteString(successStyle.Render("Done.") + "\n")
	case m.quitting:
		sb.WriteString(dimStyle.Render("Stopping...") + "\n")
	}
	return sb.String()
}

func renderBar(step, total int) string {
	filled := 0
	if total > 0 {
		filled = step * barWidth / total
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

func formatWaypoint(wp []int) string {
	parts := make([]string, len(wp))
	for i, v := range wp {
		parts[i] = fmt.Sprintf("%s=%d", brick.PortName(i), v)
	}
	return strings.Join(parts, " ")
}

func (c *RunCommand) Execute(args []string) error {
	seq, err := planFromArgs(c.From, args)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Println(renderPlanTable(seq, 10))
		confirmed := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Run %d steps at speed %d?", seq.Steps(), c.Speed)).
					Affirmative("Run").
					Negative("Cancel").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil || !confirmed {
			fmt.Println(dimStyle.Render("Cancelled."))
			return nil
		}
	}

	ctx, cancel, dev, err := connect()
	if err != nil {
		return err
	}
	defer cancel()
	defer dev.Disconnect()

	runner, err := trajectory.NewRunner(dev, seq, trajectory.Config{
		Speed: brick.ClampSpeed(c.Speed),
		Mode:  mode(c.Simultaneous),
	})
	if err != nil {
		return hint(err)
	}

	if c.Plain {
		return hint(runPlain(ctx, runner, os.Stdout))
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	p := tea.NewProgram(runModel{runner: runner, cancel: stop})
	go func() {
		p.Send(doneMsg{err: runner.Run(runCtx)})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	rm := final.(runModel)
	if rm.err != nil && !errors.Is(rm.err, context.Canceled) {
		return hint(rm.err)
	}
	return nil
}

func runPlain(ctx context.Context, runner *trajectory.Runner, w io.Writer) error {
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()

	for {
		select {
		case s := <-runner.States():
			printState(w, s)
		case msg := <-runner.Logs():
			fmt.Fprintln(w, dimStyle.Render(msg))
		case err := <-errCh:
			drainPlain(runner, w)
			return err
		}
	}
}

// drainPlain prints whatever the runner queued before it returned.
func drainPlain(runner *trajectory.Runner, w io.Writer) {
	for {
		select {
		case s := <-runner.States():
			printState(w, s)
		case msg := <-runner.Logs():
			fmt.Fprintln(w, dimStyle.Render(msg))
		default:
			return
		}
	}
}

func printState(w io.Writer, s trajectory.State) {
	if s.Error == nil {
		fmt.Fprintf(w, "%d/%d %s\n", s.Step, s.Total, formatWaypoint(s.Waypoint))
	}
}
