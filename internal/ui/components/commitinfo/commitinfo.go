package commitinfo

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/gitup/internal/graph"
	"github.com/yourusername/gitup/internal/ui/styles"
)

// Model is the metadata panel for the commit under the cursor.
type Model struct {
	viewport viewport.Model
	commit   *graph.CommitNode
	decor    graph.Decoration
	styles   *styles.Styles
	width    int
	height   int
}

func New(styles *styles.Styles, width, height int) Model {
	vp := viewport.New(width, height)
	return Model{
		viewport: vp,
		styles:   styles,
		width:    width,
		height:   height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.commit == nil {
		return m.styles.Panel.Render("Select a commit to view details")
	}
	return m.viewport.View()
}

func (m *Model) SetCommit(commit *graph.CommitNode, decor graph.Decoration) {
	m.commit = commit
	m.decor = decor
	m.viewport.SetContent(m.renderCommitInfo())
}

func (m *Model) renderCommitInfo() string {
	if m.commit == nil {
		return ""
	}

	hashStyle := lipgloss.NewStyle().Foreground(m.styles.Theme.CommitHash).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.styles.Theme.Subtext).Bold(true)
	branchStyle := lipgloss.NewStyle().Foreground(m.styles.Theme.BranchMain)
	tagStyle := lipgloss.NewStyle().Foreground(m.styles.Theme.Tag)

	details := fmt.Sprintf("%s %s\n", labelStyle.Render("Commit:"), hashStyle.Render(m.commit.ID))
	details += fmt.Sprintf("%s %s\n", labelStyle.Render("Author:"), m.commit.Author)
	details += fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), m.commit.Timestamp.Format("Mon Jan 2 15:04:05 2006"))
	if len(m.commit.Parents) > 0 {
		shorts := make([]string, len(m.commit.Parents))
		for i, p := range m.commit.Parents {
			if len(p) > 7 {
				p = p[:7]
			}
			shorts[i] = p
		}
		details += fmt.Sprintf("%s %s\n", labelStyle.Render("Parents:"), strings.Join(shorts, " "))
	}
	if len(m.decor.Branches) > 0 {
		details += fmt.Sprintf("%s %s\n", labelStyle.Render("Branches:"), branchStyle.Render(strings.Join(m.decor.Branches, " ")))
	}
	if len(m.decor.Tags) > 0 {
		details += fmt.Sprintf("%s %s\n", labelStyle.Render("Tags:"), tagStyle.Render(strings.Join(m.decor.Tags, " ")))
	}
	details += fmt.Sprintf("\n%s", m.commit.Message)

	return details
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}
