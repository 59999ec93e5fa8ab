package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johanaerens/assetmanagement/store"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("ASSET MANAGEMENT"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if len(m.tabs) > 0 {
		if msg := m.current().ErrorMessage(); msg != "" && m.err == nil {
			s.WriteString(errorStyle.Render("Error: " + msg))
			s.WriteString("\n")
		}
	}
	s.WriteString(m.errorLine())
	if m.status != "" {
		s.WriteString(statusStyle.Render(m.status))
		s.WriteString("\n")
	}

	// Table
	s.WriteString(m.table.View())
	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, t := range m.tabs {
		if i == m.active {
			rendered = append(rendered, tabActiveStyle.Render(t.Title()))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(t.Title()))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// buildTable renders the active tab's rows. The sorted column carries an
// arrow and a digit prefix tells which key toggles it.
func (m Model) buildTable() table.Model {
	if len(m.tabs) == 0 {
		return table.New()
	}
	t := m.current()
	cols := t.Columns()
	sort := t.Sort()

	width := 12
	if len(cols) > 0 && m.width > 0 {
		width = max(8, (m.width-2*len(cols))/len(cols))
	}

	columns := make([]table.Column, 0, len(cols))
	for i, c := range cols {
		title := c.Label
		if i < 9 {
			title = strconv.Itoa(i+1) + " " + title
		}
		if sort.Field == c.Name {
			title += sortIndicator(sort)
		}
		columns = append(columns, table.Column{Title: title, Width: width})
	}

	var rows []table.Row
	for _, r := range t.Rows() {
		rows = append(rows, table.Row(r))
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-12)),
	)

	cursor := m.table.Cursor()
	if cursor < len(rows) {
		tbl.SetCursor(cursor)
	}

	return tbl
}

func sortIndicator(s store.Sort) string {
	if s.Direction == store.Desc {
		return " ▼"
	}
	return " ▲"
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"1-9: Sort",
		"Enter: View details",
		"n: New",
		"e: Edit",
		"d: Delete",
		"r: Refresh",
		"g: Graph",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.tabs) == 0 {
		return m, nil
	}
	m.status = ""

	key := msg.String()
	switch key {
	case "tab", "shift+tab":
		step := 1
		if key == "shift+tab" {
			step = len(m.tabs) - 1
		}
		m.active = (m.active + step) % len(m.tabs)
		m.err = nil
		if m.prefs != nil {
			if err := m.prefs.SaveTab(m.current().Name()); err != nil {
				m.err = err
			}
		}
		m.table = m.buildTable()
		m.table.SetCursor(0)
		return m, m.loadList()
	case "r":
		return m, m.loadList()
	case "enter":
		id, ok := m.getSelectedID()
		if !ok {
			return m, nil
		}
		m.selectedID = &id
		t, ctx := m.current(), m.ctx
		return m, func() tea.Msg {
			return detailLoadedMsg{err: t.LoadDetail(ctx, id)}
		}
	case "n":
		m.selectedID = nil
		return m, m.mountForm(nil)
	case "e":
		id, ok := m.getSelectedID()
		if !ok {
			return m, nil
		}
		m.selectedID = &id
		return m, m.mountForm(&id)
	case "d":
		id, ok := m.getSelectedID()
		if !ok {
			return m, nil
		}
		m.selectedID = &id
		return m, m.loadDelete(id)
	case "g":
		if m.graph == nil {
			return m, nil
		}
		graph, ctx := m.graph, m.ctx
		return m, func() tea.Msg {
			dot, err := graph(ctx)
			return graphMsg{dot: dot, err: err}
		}
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		cols := m.current().Columns()
		if n > len(cols) {
			return m, nil
		}
		field := cols[n-1].Name
		t, ctx, idx := m.current(), m.ctx, m.active
		return m, func() tea.Msg {
			return listLoadedMsg{tab: idx, err: t.ToggleSort(ctx, field)}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// getSelectedID reads the id column of the highlighted row.
func (m Model) getSelectedID() (int64, bool) {
	row := m.table.SelectedRow()
	if row == nil {
		return 0, false
	}
	for i, c := range m.current().Columns() {
		if c.Name != "id" || i >= len(row) {
			continue
		}
		id, err := strconv.ParseInt(row[i], 10, 64)
		return id, err == nil
	}
	return 0, false
}
