// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen list, detail, form and delete screens for assets, employees and histories
package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johanaerens/assetmanagement/views"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// Prefs remembers the active tab and per-entity sort between runs.
type Prefs interface {
	views.SortPrefs
	LoadTab() (string, error)
	SaveTab(entity string) error
}

// GraphFunc renders the current assignments as DOT source.
type GraphFunc func(ctx context.Context) (string, error)

// Model is the main bubbletea model
type Model struct {
	ctx      context.Context
	tabs     []entityTab
	active   int
	prefs    Prefs
	graph    GraphFunc
	viewMode ViewMode

	// List view state
	table table.Model

	// Detail and delete state
	selectedID *int64
	returnMode ViewMode

	// Edit view state
	formFields []formField
	formInputs []textinput.Model
	focusIndex int

	// Graph view state
	graphDOT string

	// UI state
	status string
	err    error
	width  int
	height int
}

type listLoadedMsg struct {
	tab int
	err error
}

type detailLoadedMsg struct{ err error }

type formReadyMsg struct{ err error }

type savedMsg struct{ err error }

type deleteReadyMsg struct{ err error }

type deletedMsg struct{ err error }

type graphMsg struct {
	dot string
	err error
}

// NewModel creates a new TUI model. prefs and graph may be nil.
func NewModel(ctx context.Context, tabs []entityTab, prefs Prefs, graph GraphFunc) Model {
	m := Model{
		ctx:      ctx,
		tabs:     tabs,
		prefs:    prefs,
		graph:    graph,
		viewMode: ViewList,
		width:    80,
		height:   24,
	}
	if prefs != nil {
		if name, err := prefs.LoadTab(); err == nil {
			for i, t := range tabs {
				if t.Name() == name {
					m.active = i
				}
			}
		}
	}
	m.table = m.buildTable()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.loadList()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.buildTable()
		return m, nil
	case listLoadedMsg:
		if msg.tab != m.active {
			return m, nil
		}
		m.err = msg.err
		m.table = m.buildTable()
		return m, nil
	case detailLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.viewMode = ViewDetail
		}
		return m, nil
	case formReadyMsg:
		m.err = msg.err
		if msg.err == nil {
			m.initFormInputs()
			m.viewMode = ViewEdit
		}
		return m, nil
	case savedMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.status = "Saved"
		m.viewMode = ViewList
		return m, m.loadList()
	case deleteReadyMsg:
		m.err = msg.err
		if msg.err == nil {
			m.returnMode = m.viewMode
			m.viewMode = ViewConfirmDelete
		}
		return m, nil
	case deletedMsg:
		m.err = msg.err
		m.viewMode = ViewList
		if msg.err == nil {
			m.status = "Successfully deleted"
			m.selectedID = nil
		}
		return m, m.loadList()
	case graphMsg:
		m.err = msg.err
		if msg.err == nil {
			m.graphDOT = msg.dot
			m.viewMode = ViewGraph
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		// typed into the form instead
		if m.viewMode != ViewEdit {
			return m, tea.Quit
		}
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

func (m Model) current() entityTab {
	return m.tabs[m.active]
}

func (m Model) loadList() tea.Cmd {
	if len(m.tabs) == 0 {
		return nil
	}
	idx, t, ctx := m.active, m.current(), m.ctx
	return func() tea.Msg {
		return listLoadedMsg{tab: idx, err: t.Load(ctx)}
	}
}

func (m Model) errorLine() string {
	if m.err == nil {
		return ""
	}
	return errorStyle.Render("Error: "+m.err.Error()) + "\n"
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)
