package deliberation

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type snapshotMsg struct {
	snapshot domain.Snapshot
}

type feedClosedMsg struct{}

type liveModel struct {
	spinner   spinner.Model
	snapshots <-chan domain.Snapshot
	latest    domain.Snapshot
	styles    styles
	done      bool
}

func newLiveModel(snapshots <-chan domain.Snapshot) liveModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return liveModel{
		spinner:   s,
		snapshots: snapshots,
		styles:    newStyles(),
	}
}

func waitSnapshot(ch <-chan domain.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return snapshotMsg{snapshot: snapshot}
	}
}

func (m liveModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitSnapshot(m.snapshots))
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case snapshotMsg:
		m.latest = msg.snapshot
		if m.latest.Status.Terminal() {
			m.done = true
			return m, tea.Quit
		}
		return m, waitSnapshot(m.snapshots)
	case feedClosedMsg:
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m liveModel) View() string {
	if m.done {
		return ""
	}

	label := "Deliberating..."
	if m.latest.Records > 0 {
		label = fmt.Sprintf("Deliberating... %d records", m.latest.Records)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", m.spinner.View(), label),
		renderPhases(m.latest.Phases, m.styles, true),
	)
}

// RunLive shows a spinner and the phase board until a terminal snapshot
// arrives or snapshots is closed. It returns the last snapshot seen.
func RunLive(ctx context.Context, output io.Writer, snapshots <-chan domain.Snapshot) (domain.Snapshot, error) {
	p := tea.NewProgram(
		newLiveModel(snapshots),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	finalModel, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return domain.Snapshot{}, ctx.Err()
		}
		return domain.Snapshot{}, err
	}

	result, ok := finalModel.(liveModel)
	if !ok {
		return domain.Snapshot{}, ErrUnexpectedRenderModel
	}

	return result.latest, nil
}
