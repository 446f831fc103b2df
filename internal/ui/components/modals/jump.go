package modals

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/gitup/internal/ui/styles"
)

// JumpModal is the inline ":" input for seeking the viewport cursor to
// an absolute row number.
type JumpModal struct {
	input   textinput.Model
	styles  *styles.Styles
	visible bool
	width   int
}

func NewJumpModal(s *styles.Styles) JumpModal {
	ti := textinput.New()
	ti.Placeholder = "row number"
	ti.CharLimit = 10
	ti.Width = 20

	panelBg := s.Theme.BackgroundPanel
	ti.PromptStyle = lipgloss.NewStyle().
		Foreground(s.Theme.BranchFeature).
		Background(panelBg).
		Bold(true)
	ti.TextStyle = lipgloss.NewStyle().
		Foreground(s.Theme.Foreground).
		Background(panelBg)
	ti.PlaceholderStyle = lipgloss.NewStyle().
		Foreground(s.Theme.Subtext).
		Background(panelBg)
	ti.Cursor.Style = lipgloss.NewStyle().
		Background(s.Theme.Foreground)
	ti.Prompt = ": "

	return JumpModal{
		input:  ti,
		styles: s,
		width:  80,
	}
}

func (m JumpModal) Init() tea.Cmd {
	return textinput.Blink
}

func (m JumpModal) Update(msg tea.Msg) (JumpModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Height returns the number of terminal rows this component occupies
// when visible.
func (m JumpModal) Height() int {
	if !m.visible {
		return 0
	}
	return 1
}

// View renders the inline jump bar (meant to sit above the action bar).
func (m JumpModal) View() string {
	if !m.visible {
		return ""
	}

	theme := m.styles.Theme
	panelBg := theme.BackgroundPanel
	bgStyle := lipgloss.NewStyle().Background(panelBg)

	hintStyle := lipgloss.NewStyle().
		Foreground(theme.Subtext).
		Background(panelBg).
		Italic(true)

	line := m.input.View() + bgStyle.Render("  ") + hintStyle.Render("enter: jump  esc: cancel")
	pad := m.width - lipgloss.Width(line)
	if pad > 0 {
		line += bgStyle.Render(strings.Repeat(" ", pad))
	}
	return line
}

// Value parses the entered row number. ok is false when the input is
// empty or not a number.
func (m JumpModal) Value() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (m *JumpModal) Show() {
	m.visible = true
	m.input.SetValue("")
	m.input.Focus()
}

func (m *JumpModal) Hide() {
	m.visible = false
	m.input.Blur()
}

func (m *JumpModal) IsVisible() bool {
	return m.visible
}

func (m *JumpModal) SetWidth(width int) {
	m.width = width
}
