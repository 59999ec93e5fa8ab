// ABOUTME: Tests for TUI key handling and screen transitions
// ABOUTME: Drives the model with key messages against an in-memory tab
package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/store"
	"github.com/johanaerens/assetmanagement/views"
)

type fakeTab struct {
	name      string
	rows      [][]string
	sort      store.Sort
	loads     int
	toggled   []string
	detailID  int64
	formID    *int64
	submitted map[string]string
	submitErr error
	deleteID  int64
	deleted   bool
}

func (f *fakeTab) Name() string  { return f.name }
func (f *fakeTab) Title() string { return f.name + "s" }

func (f *fakeTab) Columns() []column {
	return []column{{"id", "ID"}, {"number", "Number"}, {"status", "Status"}}
}

func (f *fakeTab) Rows() [][]string { return f.rows }
func (f *fakeTab) Sort() store.Sort { return f.sort }

func (f *fakeTab) Load(ctx context.Context) error {
	f.loads++
	return nil
}

func (f *fakeTab) ToggleSort(ctx context.Context, field string) error {
	f.toggled = append(f.toggled, field)
	f.sort = f.sort.Toggle(field)
	return nil
}

func (f *fakeTab) LoadDetail(ctx context.Context, id int64) error {
	f.detailID = id
	return nil
}

func (f *fakeTab) DetailRows() []views.Row {
	return []views.Row{{Label: "Number", Value: "A-1"}}
}

func (f *fakeTab) MountForm(ctx context.Context, id *int64) error {
	f.formID = id
	return nil
}

func (f *fakeTab) FormFields() []formField {
	return []formField{
		{Name: "number", Label: "Number", Kind: models.KindText},
		{Name: "status", Label: "Status", Kind: models.KindEnum, Options: []string{"IN_USE", "SOLD"}},
		{Name: "employee", Label: "Employee", Kind: models.KindRef},
	}
}

func (f *fakeTab) FormValues() map[string]string {
	return map[string]string{"status": "IN_USE"}
}

func (f *fakeTab) FormOptions(field string) []views.Option {
	if field != "employee" {
		return nil
	}
	return []views.Option{{ID: 4, Label: "Ann Smith"}}
}

func (f *fakeTab) SubmitForm(ctx context.Context, values map[string]string) error {
	f.submitted = values
	return f.submitErr
}

func (f *fakeTab) LoadDelete(ctx context.Context, id int64) error {
	f.deleteID = id
	return nil
}

func (f *fakeTab) DeletePrompt() string { return "Are you sure you want to delete asset 5?" }

func (f *fakeTab) ConfirmDelete(ctx context.Context) error {
	f.deleted = true
	return nil
}

func (f *fakeTab) ErrorMessage() string { return "" }

type fakePrefs struct {
	tab string
}

func (p *fakePrefs) LoadSort(entity string) (string, error) { return "", nil }
func (p *fakePrefs) SaveSort(entity, sort string) error     { return nil }
func (p *fakePrefs) LoadTab() (string, error)               { return p.tab, nil }
func (p *fakePrefs) SaveTab(entity string) error            { p.tab = entity; return nil }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command, feeding its message back.
func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(key(s))
	m = next.(Model)
	return run(t, m, cmd)
}

func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg.(type) {
	case listLoadedMsg, detailLoadedMsg, formReadyMsg, savedMsg, deleteReadyMsg, deletedMsg, graphMsg:
		next, follow := m.Update(msg)
		return run(t, next.(Model), follow)
	}
	return m
}

func newTestModel(t *testing.T) (Model, *fakeTab, *fakeTab, *fakePrefs) {
	t.Helper()
	assets := &fakeTab{name: "asset", rows: [][]string{{"5", "A-1", "IN_USE"}, {"6", "A-2", "SOLD"}}}
	employees := &fakeTab{name: "employee"}
	prefs := &fakePrefs{}
	m := NewModel(context.Background(), []entityTab{assets, employees}, prefs, nil)
	m = run(t, m, m.Init())
	return m, assets, employees, prefs
}

func TestInitLoadsActiveList(t *testing.T) {
	m, assets, _, _ := newTestModel(t)

	assert.Equal(t, 1, assets.loads)
	assert.Equal(t, ViewList, m.viewMode)
	assert.Contains(t, m.View(), "A-1")
	assert.Contains(t, m.View(), "assets")
}

func TestNewModelRestoresTab(t *testing.T) {
	prefs := &fakePrefs{tab: "employee"}
	m := NewModel(context.Background(), []entityTab{&fakeTab{name: "asset"}, &fakeTab{name: "employee"}}, prefs, nil)
	assert.Equal(t, 1, m.active)
}

func TestTabSwitchPersistsAndLoads(t *testing.T) {
	m, _, employees, prefs := newTestModel(t)

	m = press(t, m, "tab")

	assert.Equal(t, 1, m.active)
	assert.Equal(t, "employee", prefs.tab)
	assert.Equal(t, 1, employees.loads)
}

func TestDigitTogglesSortOnColumn(t *testing.T) {
	m, assets, _, _ := newTestModel(t)

	m = press(t, m, "2")
	m = press(t, m, "2")

	assert.Equal(t, []string{"number", "number"}, assets.toggled)
	assert.Equal(t, store.Desc, assets.sort.Direction)
	assert.Contains(t, m.View(), "Number ▼")
}

func TestEnterOpensDetail(t *testing.T) {
	m, assets, _, _ := newTestModel(t)

	m = press(t, m, "enter")

	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Equal(t, int64(5), assets.detailID)
	assert.Contains(t, m.View(), "A-1")

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestNewFormSubmitsTypedValues(t *testing.T) {
	m, assets, _, _ := newTestModel(t)

	m = press(t, m, "n")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Nil(t, assets.formID)
	assert.Contains(t, m.View(), "NEW ASSETS")

	m = press(t, m, "q")
	m = press(t, m, "1")
	require.Equal(t, ViewEdit, m.viewMode, "q must not quit while typing")

	m = press(t, m, "tab")
	m = press(t, m, "right")
	m = press(t, m, "tab")
	m = press(t, m, "right")
	assert.Contains(t, m.View(), "Ann Smith")

	loadsBefore := assets.loads
	m = press(t, m, "enter")

	assert.Equal(t, map[string]string{"number": "q1", "status": "SOLD", "employee": "4"}, assets.submitted)
	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, loadsBefore+1, assets.loads)
	assert.Contains(t, m.View(), "Saved")
}

func TestFormStaysOpenOnError(t *testing.T) {
	m, assets, _, _ := newTestModel(t)
	assets.submitErr = errors.New("request failed with status code 400")

	m = press(t, m, "e")
	require.NotNil(t, assets.formID)
	assert.Equal(t, int64(5), *assets.formID)

	m = press(t, m, "enter")
	assert.Equal(t, ViewEdit, m.viewMode)
	assert.Contains(t, m.View(), "status code 400")
}

func TestEnumCyclesBackToEmpty(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m = press(t, m, "n")
	m = press(t, m, "tab")

	m = press(t, m, "left")
	assert.Equal(t, "", m.formInputs[1].Value())
	m = press(t, m, "left")
	assert.Equal(t, "SOLD", m.formInputs[1].Value())
}

func TestDeleteConfirmAndCancel(t *testing.T) {
	m, assets, _, _ := newTestModel(t)

	m = press(t, m, "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Equal(t, int64(5), assets.deleteID)
	assert.Contains(t, m.View(), "delete asset 5?")

	m = press(t, m, "n")
	assert.Equal(t, ViewList, m.viewMode)
	assert.False(t, assets.deleted)

	m = press(t, m, "enter")
	m = press(t, m, "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	m = press(t, m, "y")

	assert.True(t, assets.deleted)
	assert.Equal(t, ViewList, m.viewMode)
	assert.Nil(t, m.selectedID)
}

func TestGraphView(t *testing.T) {
	assets := &fakeTab{name: "asset"}
	graph := func(ctx context.Context) (string, error) { return "digraph {}", nil }
	m := NewModel(context.Background(), []entityTab{assets}, nil, graph)

	m = press(t, m, "g")
	require.Equal(t, ViewGraph, m.viewMode)
	assert.Contains(t, m.View(), "digraph {}")

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, 1, assets.loads)
}

func TestQuit(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
