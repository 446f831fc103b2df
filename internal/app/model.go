package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yourusername/gitup/internal/config"
	"github.com/yourusername/gitup/internal/git"
	"github.com/yourusername/gitup/internal/graph"
	"github.com/yourusername/gitup/internal/ui/components/actionbar"
	"github.com/yourusername/gitup/internal/ui/components/commitinfo"
	"github.com/yourusername/gitup/internal/ui/components/commits"
	"github.com/yourusername/gitup/internal/ui/components/modals"
	"github.com/yourusername/gitup/internal/ui/keys"
	"github.com/yourusername/gitup/internal/ui/layout"
	"github.com/yourusername/gitup/internal/ui/styles"
)

type Model struct {
	config *config.Config
	repo   *git.Repository
	logger *zap.Logger
	styles *styles.Styles
	layout *layout.Layout
	keyMap keys.KeyMap

	commitsPanel commits.Model
	infoPanel    commitinfo.Model
	actionBar    actionbar.Model
	helpModal    modals.HelpModal
	jumpModal    modals.JumpModal
	loadSpinner  spinner.Model

	dag   *graph.Dag
	decor graph.Decorations

	showInfo bool
	width    int
	height   int
	ready    bool
}

type dagLoadedMsg struct {
	dag   *graph.Dag
	decor graph.Decorations
	tips  []string
	err   error
}

type clearMessageMsg struct{}

func New(cfg *config.Config, repoPath string, logger *zap.Logger) (*Model, error) {
	repo, err := git.OpenRepository(repoPath)
	if err != nil {
		return nil, errors.Wrap(err, "open repository")
	}

	theme := styles.GetTheme(cfg.UI.Theme)
	st := styles.NewStyles(theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	km := keys.FromConfigSlices(
		cfg.Keybindings.Quit, cfg.Keybindings.Help, cfg.Keybindings.Jump,
		cfg.Keybindings.Up, cfg.Keybindings.Down,
		cfg.Keybindings.Top, cfg.Keybindings.Bottom,
		cfg.Keybindings.PageUp, cfg.Keybindings.PageDown,
		cfg.Keybindings.HalfPageUp, cfg.Keybindings.HalfPageDown,
		cfg.Keybindings.Recenter,
	)

	return &Model{
		config:      cfg,
		repo:        repo,
		logger:      logger,
		styles:      st,
		keyMap:      km,
		helpModal:   modals.NewHelpModal(st),
		jumpModal:   modals.NewJumpModal(st),
		loadSpinner: sp,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSpinner.Tick, m.loadDagCmd())
}

// loadDagCmd ingests the repository history off the event loop. The
// decoration map is built first so the privileged-branch pre-scan can
// hand tip ids to the allocator before any lane is assigned.
func (m Model) loadDagCmd() tea.Cmd {
	repo := m.repo
	cfg := m.config
	logger := m.logger
	return func() tea.Msg {
		decor, err := repo.Decorations()
		if err != nil {
			return dagLoadedMsg{err: err}
		}
		tips := repo.ResolveTips(cfg.Graph.PrivilegedBranches)

		source, err := repo.Source()
		if err != nil {
			return dagLoadedMsg{err: err}
		}

		start := time.Now()
		dag, err := graph.Build(context.Background(), source, graph.BuildOptions{
			IngestLimit: cfg.Performance.IngestLimit,
		})
		if err != nil {
			return dagLoadedMsg{err: err}
		}
		logger.Info("dag built",
			zap.Int("commits", dag.Len()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return dagLoadedMsg{dag: dag, decor: decor, tips: tips}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case spinner.TickMsg:
		if !m.ready {
			var cmd tea.Cmd
			m.loadSpinner, cmd = m.loadSpinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case dagLoadedMsg:
		return m.handleDagLoaded(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case commits.SelectionChangedMsg:
		m.syncSelection()
		return m, nil

	case clearMessageMsg:
		m.actionBar.ClearMessage()
		return m, nil
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	theme := m.styles.Theme
	m.layout = layout.New(msg.Width, msg.Height, 0, theme.Background, theme.Border, theme.Head)
	m.actionBar.SetWidth(msg.Width)
	m.jumpModal.SetWidth(msg.Width)
	m.recalcPanelSize()
	return m, nil
}

func (m *Model) recalcPanelSize() {
	if m.layout == nil {
		return
	}
	extra := m.jumpModal.Height()
	if m.showInfo {
		extra += 8
	}
	w, h := m.layout.CalculateWithExtra(extra)
	if m.dag != nil {
		m.commitsPanel.SetSize(w, h)
	}
	m.infoPanel.SetSize(w, 8)
}

func (m Model) handleDagLoaded(msg dagLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("load failed", zap.Error(msg.err))
		return m, tea.Quit
	}
	m.dag = msg.dag
	m.decor = msg.decor

	w, h := 80, 24
	if m.layout != nil {
		w, h = m.layout.Calculate()
	}

	m.commitsPanel = commits.New(m.dag, m.decor, commits.Options{
		Profile:            commits.Profile(m.config.Graph.Charset),
		LaneWidth:          m.config.Graph.LaneWidthCells,
		LaneColors:         m.config.Graph.LaneColors,
		CJKAware:           m.config.Graph.TruncateMessageCJKAware,
		ShowTime:           m.config.UI.ShowTime,
		PrivilegedTips:     msg.tips,
		CheckpointInterval: m.config.Graph.CheckpointInterval,
	}, m.styles, m.keyMap, w, h)

	m.infoPanel = commitinfo.New(m.styles, w, 8)
	m.actionBar = actionbar.New(m.styles, m.width)
	m.ready = true
	m.syncSelection()
	return m, nil
}

func (m *Model) syncSelection() {
	if !m.ready {
		return
	}
	cursor, total := m.commitsPanel.Position()
	m.actionBar.SetPosition(cursor, total, m.commitsPanel.Progress())
	if sel := m.commitsPanel.SelectedCommit(); sel != nil {
		dec, _ := m.decor.Lookup(sel.ID)
		m.infoPanel.SetCommit(sel, dec)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.jumpModal.IsVisible() {
		return m.handleJumpModal(msg)
	}

	if m.helpModal.IsVisible() {
		if keys.MatchesKey(msg, m.keyMap.Help) || msg.String() == "esc" {
			m.helpModal.Toggle()
		}
		return m, nil
	}

	switch {
	case keys.MatchesKey(msg, m.keyMap.Quit):
		return m, tea.Quit
	case keys.MatchesKey(msg, m.keyMap.Help):
		m.helpModal.Toggle()
		return m, nil
	case keys.MatchesKey(msg, m.keyMap.Jump):
		if m.ready {
			m.jumpModal.Show()
			m.recalcPanelSize()
			return m, m.jumpModal.Init()
		}
		return m, nil
	case keys.MatchesKey(msg, m.keyMap.Enter):
		m.showInfo = !m.showInfo
		m.recalcPanelSize()
		return m, nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.commitsPanel, cmd = m.commitsPanel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleJumpModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.jumpModal.Hide()
		m.recalcPanelSize()
		return m, nil
	case "enter":
		index, ok := m.jumpModal.Value()
		m.jumpModal.Hide()
		m.recalcPanelSize()
		if !ok {
			return m, nil
		}
		// Rows are shown 1-based in the action bar.
		if err := m.commitsPanel.Jump(index - 1); err != nil {
			m.logger.Warn("jump rejected", zap.Error(err))
			m.actionBar.SetMessage(err.Error())
			return m, m.clearMessageAfter(3 * time.Second)
		}
		m.syncSelection()
		return m, nil
	}

	var cmd tea.Cmd
	m.jumpModal, cmd = m.jumpModal.Update(msg)
	return m, cmd
}

func (m Model) clearMessageAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

func (m Model) View() string {
	if !m.ready || m.layout == nil {
		return m.loadSpinner.View() + " Loading commit graph..."
	}

	if m.helpModal.IsVisible() {
		return m.helpModal.View()
	}

	var extra string
	if m.jumpModal.IsVisible() {
		extra = m.jumpModal.View()
	} else if m.showInfo {
		extra = m.infoPanel.View()
	}

	return m.layout.RenderWithExtra(m.commitsPanel.View(), extra, m.actionBar.View())
}
