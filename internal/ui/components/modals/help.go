package modals

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/gitup/internal/ui/styles"
)

type HelpModal struct {
	styles  *styles.Styles
	visible bool
}

func NewHelpModal(styles *styles.Styles) HelpModal {
	return HelpModal{
		styles:  styles,
		visible: false,
	}
}

func (m HelpModal) View() string {
	if !m.visible {
		return ""
	}

	title := m.styles.Title.Render("Keybindings")

	helpText := `
Navigation:
  j/↓       - Move down
  k/↑       - Move up
  g/Home    - Go to top
  G/End     - Go to bottom
  Ctrl+D    - Half page down
  Ctrl+U    - Half page up
  PgDn      - Page down
  PgUp      - Page up
  z         - Recenter on cursor
  :         - Jump to row number

General:
  ?         - Toggle help
  q/Ctrl+C  - Quit

Note: Native terminal text selection works with mouse drag.
`

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.styles.Help.Render(helpText),
	)

	modal := m.styles.PanelFocused.Render(content)

	return lipgloss.Place(
		80, 24,
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}

func (m *HelpModal) Toggle() {
	m.visible = !m.visible
}

func (m *HelpModal) IsVisible() bool {
	return m.visible
}
