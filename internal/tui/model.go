package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clawd-ops/missioncontrol/internal/daemon/watcher"
	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

// Minimum terminal size.
const (
	minWidth  = 80
	minHeight = 24
)

// Model is the root Bubbletea model for the dashboard.
type Model struct {
	store           *dashboard.Store
	refreshInterval time.Duration

	// Latest read of every view
	snap *Snapshot

	// UI state
	activeTab      int
	sessionFilter  int // index into dashboard.SessionFilters
	activityFilter int // index into dashboard.ActivityFilters
	focusedPanel   int // Sessions tab: 0=list, 1=history
	activeOverlay  int
	detail         *itemDetail
	splitRatio     float64
	width          int
	height         int

	// Status display
	err    error
	notice string

	// Child components
	sessionList     *ListView
	subagentList    *ListView
	activityList    *ListView
	cronList        *ListView
	deliverableList *ListView
	history         *HistoryViewer
}

// NewModel creates the initial dashboard model.
func NewModel(store *dashboard.Store, refreshInterval time.Duration) Model {
	return Model{
		store:           store,
		refreshInterval: refreshInterval,
		splitRatio:      0.45,
		sessionList:     NewListView("No sessions."),
		subagentList:    NewListView("No sub-agent tasks."),
		activityList:    NewListView("No activity."),
		cronList:        NewListView("No cron jobs."),
		deliverableList: NewListView("No deliverables yet."),
		history:         NewHistoryViewer(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadSnapshotCmd(m.store),
		refreshTick(m.refreshInterval),
	)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case SnapshotLoadedMsg:
		m.snap = msg.Snapshot
		m.rebuildLists()
		// Keep an open history in step with the session list.
		if sessionKey := m.history.SessionKey(); sessionKey != "" {
			if s, ok := m.findSession(sessionKey); ok {
				cmds = append(cmds, loadHistoryCmd(m.store, s))
			}
		}
		return m, tea.Batch(cmds...)

	case HistoryLoadedMsg:
		m.history.SetHistory(msg.Session, msg.Messages)
		return m, nil

	case StateChangedMsg:
		// The producer wrote; drop the cache so the next read is fresh.
		m.store.Refresh()
		cmds = append(cmds, loadSnapshotCmd(m.store))
		if msg.Event.Type == watcher.EventHistoryChanged && msg.Event.SessionKey == m.history.SessionKey() {
			if s, ok := m.findSession(msg.Event.SessionKey); ok {
				cmds = append(cmds, loadHistoryCmd(m.store, s))
			}
		}
		return m, tea.Batch(cmds...)

	case TickMsg:
		cmds = append(cmds, loadSnapshotCmd(m.store), refreshTick(m.refreshInterval))
		return m, tea.Batch(cmds...)

	case ErrorMsg:
		m.err = msg.Err
		return m, clearErrorAfter(5 * time.Second)

	case ClearErrorMsg:
		m.err = nil
		return m, nil

	case ClearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

// handleKey processes key events.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.activeOverlay != overlayNone {
		if key.Matches(msg, overlayKeys.Close) {
			m.activeOverlay = overlayNone
			m.detail = nil
		}
		return nil
	}

	switch {
	case key.Matches(msg, globalKeys.Quit):
		return tea.Quit

	case key.Matches(msg, globalKeys.Help):
		m.activeOverlay = overlayHelp
		return nil

	case key.Matches(msg, globalKeys.Refresh):
		m.notice = "Refreshed"
		return tea.Batch(refreshCmd(m.store), clearNoticeAfter(2*time.Second))

	case key.Matches(msg, tabSwitchKeys.Home):
		m.setTab(tabHome)
		return nil
	case key.Matches(msg, tabSwitchKeys.Sessions):
		m.setTab(tabSessions)
		return nil
	case key.Matches(msg, tabSwitchKeys.Subagents):
		m.setTab(tabSubagents)
		return nil
	case key.Matches(msg, tabSwitchKeys.Activity):
		m.setTab(tabActivity)
		return nil
	case key.Matches(msg, tabSwitchKeys.Cron):
		m.setTab(tabCron)
		return nil
	case key.Matches(msg, tabSwitchKeys.Deliverables):
		m.setTab(tabDeliverables)
		return nil
	case key.Matches(msg, tabSwitchKeys.Left):
		m.setTab((m.activeTab + len(tabNames) - 1) % len(tabNames))
		return nil
	case key.Matches(msg, tabSwitchKeys.Right):
		m.setTab((m.activeTab + 1) % len(tabNames))
		return nil
	}

	if m.activeTab == tabSessions {
		return m.handleSessionsKey(msg)
	}

	list := m.activeList()
	if list == nil {
		return nil
	}
	switch {
	case key.Matches(msg, listKeys.Up):
		list.MoveUp()
	case key.Matches(msg, listKeys.Down):
		list.MoveDown()
	case key.Matches(msg, listKeys.PageUp):
		list.PageUp()
	case key.Matches(msg, listKeys.PageDown):
		list.PageDown()
	case key.Matches(msg, listKeys.Filter):
		if m.activeTab == tabActivity {
			m.activityFilter = (m.activityFilter + 1) % len(dashboard.ActivityFilters)
			m.rebuildLists()
		}
	case key.Matches(msg, listKeys.Open):
		if sel, ok := list.Selected(); ok && sel.detail != nil {
			m.detail = sel.detail
			m.activeOverlay = overlayDetail
		}
	}
	return nil
}

func (m *Model) handleSessionsKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, globalKeys.Tab) {
		if m.history.SessionKey() != "" {
			m.focusedPanel = 1 - m.focusedPanel
		}
		return nil
	}

	if m.focusedPanel == 1 {
		switch {
		case key.Matches(msg, listKeys.Up):
			m.history.ScrollUp()
		case key.Matches(msg, listKeys.Down):
			m.history.ScrollDown()
		case key.Matches(msg, listKeys.PageUp):
			m.history.PageUp()
		case key.Matches(msg, listKeys.PageDown):
			m.history.PageDown()
		case key.Matches(msg, listKeys.Back):
			m.history.Close()
			m.focusedPanel = 0
		}
		return nil
	}

	switch {
	case key.Matches(msg, listKeys.Up):
		m.sessionList.MoveUp()
	case key.Matches(msg, listKeys.Down):
		m.sessionList.MoveDown()
	case key.Matches(msg, listKeys.PageUp):
		m.sessionList.PageUp()
	case key.Matches(msg, listKeys.PageDown):
		m.sessionList.PageDown()
	case key.Matches(msg, listKeys.Filter):
		m.sessionFilter = (m.sessionFilter + 1) % len(dashboard.SessionFilters)
		m.rebuildLists()
	case key.Matches(msg, listKeys.Back):
		m.history.Close()
	case key.Matches(msg, listKeys.Open):
		sel, ok := m.sessionList.Selected()
		if !ok {
			return nil
		}
		s, ok := m.findSession(sel.key)
		if !ok {
			return nil
		}
		m.focusedPanel = 1
		return loadHistoryCmd(m.store, s)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.activeTab == tabSessions && m.focusedPanel == 1 {
			m.history.ScrollUp()
		} else if list := m.activeList(); list != nil {
			list.MoveUp()
		}
	case tea.MouseButtonWheelDown:
		if m.activeTab == tabSessions && m.focusedPanel == 1 {
			m.history.ScrollDown()
		} else if list := m.activeList(); list != nil {
			list.MoveDown()
		}
	}
}

func (m *Model) setTab(tab int) {
	m.activeTab = tab
	if tab != tabSessions {
		m.focusedPanel = 0
	}
}

func (m *Model) activeList() *ListView {
	switch m.activeTab {
	case tabSessions:
		return m.sessionList
	case tabSubagents:
		return m.subagentList
	case tabActivity:
		return m.activityList
	case tabCron:
		return m.cronList
	case tabDeliverables:
		return m.deliverableList
	}
	return nil
}

func (m *Model) findSession(key string) (models.Session, bool) {
	if m.snap == nil {
		return models.Session{}, false
	}
	for _, s := range m.snap.Sessions {
		if s.Key == key {
			return s, true
		}
	}
	return models.Session{}, false
}

// rebuildLists re-derives every list from the snapshot and current filters.
func (m *Model) rebuildLists() {
	if m.snap == nil {
		return
	}
	now := m.snap.TakenAt
	sessions := dashboard.FilterSessions(m.snap.Sessions, dashboard.SessionFilters[m.sessionFilter])
	activity := dashboard.FilterActivity(m.snap.Activity, dashboard.ActivityFilters[m.activityFilter])

	m.sessionList.SetItems(sessionItems(sessions, now))
	m.subagentList.SetItems(subagentItems(m.snap.Subagents))
	m.activityList.SetItems(activityItems(activity))
	m.cronList.SetItems(cronItems(m.snap.CronJobs, now))
	m.deliverableList.SetItems(deliverableItems(m.snap.Deliverables))
}

func (m *Model) updateDimensions() {
	layout := computeLayout(m.width, m.height, m.splitRatio)
	innerHeight := layout.contentHeight - 2

	// Scroll indicators take up to two lines.
	listHeight := innerHeight - 2
	// Filter bar and the blank line under it.
	filteredHeight := listHeight - 2

	m.sessionList.SetHeight(filteredHeight)
	m.activityList.SetHeight(filteredHeight)
	m.subagentList.SetHeight(listHeight)
	m.cronList.SetHeight(listHeight)
	m.deliverableList.SetHeight(listHeight)

	rightInner := layout.rightWidth - 2
	if rightInner < 1 {
		rightInner = 1
	}
	if innerHeight < 1 {
		innerHeight = 1
	}
	m.history.SetSize(rightInner, innerHeight)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width < minWidth || m.height < minHeight {
		sizeStr := fmt.Sprintf("%dx%d", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				"Terminal too small",
				lipgloss.NewStyle().Foreground(colorDim).Render(
					fmt.Sprintf("Need %dx%d, have ", minWidth, minHeight)+lipgloss.NewStyle().Bold(true).Render(sizeStr),
				),
			))
	}

	var status *models.AgentStatus
	if m.snap != nil {
		status = &m.snap.Overview.Status
	}
	header := renderHeader(status, m.activeTab, m.width)
	body := m.renderBody()
	statusBar := renderStatusBar(&m, m.width)

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)

	switch {
	case m.activeOverlay == overlayHelp:
		view = renderOverlay(view, renderHelp(m.width), m.width, m.height)
	case m.activeOverlay == overlayDetail && m.detail != nil:
		view = renderOverlay(view, renderDetail(m.detail, m.width), m.width, m.height)
	}
	return view
}

func (m Model) renderBody() string {
	layout := computeLayout(m.width, m.height, m.splitRatio)

	if m.snap == nil {
		return renderPanel(dimStyle.Render("Reading state files…"), m.width, layout.contentHeight)
	}

	switch m.activeTab {
	case tabSessions:
		left := renderFilterBar(dashboard.SessionFilters, m.sessionFilter) + "\n\n" +
			m.sessionList.View(layout.leftWidth-2)
		return renderPanels(left, m.history.View(), layout, m.focusedPanel)
	case tabActivity:
		content := renderFilterBar(dashboard.ActivityFilters, m.activityFilter) + "\n\n" +
			m.activityList.View(m.width-2)
		return renderPanel(content, m.width, layout.contentHeight)
	case tabSubagents:
		return renderPanel(m.subagentList.View(m.width-2), m.width, layout.contentHeight)
	case tabCron:
		return renderPanel(m.cronList.View(m.width-2), m.width, layout.contentHeight)
	case tabDeliverables:
		return renderPanel(m.deliverableList.View(m.width-2), m.width, layout.contentHeight)
	default:
		return renderPanel(renderHome(m.snap.Overview, m.snap.TakenAt), m.width, layout.contentHeight)
	}
}
