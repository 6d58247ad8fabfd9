package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const progressBarWidth = 30

// progressMsg carries one orchestrator tick into the bubbletea loop.
type progressMsg struct {
	completed int
	total     int
}

// progressDoneMsg tells the model to quit once the batch is over.
type progressDoneMsg struct{}

// progressModel renders a single-line progress bar on stderr while a
// search batch runs. Ticks arrive via Send from the search goroutine.
type progressModel struct {
	completed int
	total     int
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.completed, m.total = msg.completed, msg.total
	case progressDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.total == 0 {
		return StyleDim.Render("searching...")
	}
	filled := m.completed * progressBarWidth / m.total
	bar := styleBarFilled.Render(strings.Repeat("█", filled)) +
		styleBarEmpty.Render(strings.Repeat("░", progressBarWidth-filled))
	return fmt.Sprintf("%s %s", bar, StyleDim.Render(fmt.Sprintf("%d/%d lookups", m.completed, m.total)))
}

// progressUI runs the bubbletea progress program next to a search batch.
// Tick is safe to call from the collector goroutine; Stop blocks until the
// program has restored the terminal.
type progressUI struct {
	prog *tea.Program
	done chan struct{}
}

func startProgress() *progressUI {
	ui := &progressUI{
		prog: tea.NewProgram(progressModel{}, tea.WithOutput(os.Stderr), tea.WithInput(nil)),
		done: make(chan struct{}),
	}
	go func() {
		defer close(ui.done)
		_, _ = ui.prog.Run()
	}()
	return ui
}

func (u *progressUI) Tick(completed, total int) {
	u.prog.Send(progressMsg{completed: completed, total: total})
}

func (u *progressUI) Stop() {
	u.prog.Send(progressDoneMsg{})
	<-u.done
}
