package actionbar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/gitup/internal/ui/styles"
)

type Model struct {
	styles   *styles.Styles
	message  string
	branch   string
	cursor   int
	total    int
	progress float64
	width    int
}

func New(styles *styles.Styles, width int) Model {
	return Model{
		styles: styles,
		width:  width,
	}
}

func (m Model) View() string {
	helpText := "[j/k]move  [ctrl+d/u]half page  [g/G]top/bottom  [z]recenter  [:]jump  [?]help"
	if m.message != "" {
		helpText = m.message
	}

	position := ""
	if m.total > 0 {
		position = fmt.Sprintf("[%d/%d %.0f%%]", m.cursor+1, m.total, m.progress)
	}
	statusText := position
	if m.branch != "" {
		statusText = m.branch + " " + position
	}

	leftPart := m.styles.Help.Render(helpText)
	rightPart := m.styles.BranchName.Render(statusText)

	padding := m.width - lipgloss.Width(leftPart) - lipgloss.Width(rightPart)
	if padding < 0 {
		padding = 0
	}

	spacer := lipgloss.NewStyle().Width(padding).Render(" ")

	return m.styles.StatusBar.Render(leftPart + spacer + rightPart)
}

func (m *Model) SetBranch(branch string) {
	m.branch = branch
}

func (m *Model) SetPosition(cursor, total int, progress float64) {
	m.cursor = cursor
	m.total = total
	m.progress = progress
}

func (m *Model) SetMessage(message string) {
	m.message = message
}

func (m *Model) ClearMessage() {
	m.message = ""
}

func (m *Model) SetWidth(width int) {
	m.width = width
}
