package tui

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/johanaerens/assetmanagement/views"
)

func (m Model) renderEditView() string {
	var s strings.Builder

	// Title
	name := strings.ToUpper(m.current().Title())
	if m.selectedID == nil {
		s.WriteString(titleStyle.Render("NEW " + name))
	} else {
		s.WriteString(titleStyle.Render("EDIT " + name + " " + formatID(m.selectedID)))
	}
	s.WriteString("\n\n")
	s.WriteString(m.errorLine())

	// Form fields
	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(fieldLabelStyle.Render(m.formFields[i].Label))
		s.WriteString(input.View())
		if hint := m.optionHint(i); hint != "" {
			s.WriteString("  ")
			s.WriteString(fieldValueStyle.Render(hint))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")

	// Help
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"←/→: Choose option",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.formInputs) == 0 {
		if msg.String() == "esc" {
			m.viewMode = ViewList
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.err = nil
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "left", "right":
		if opts := m.choices(m.focusIndex); opts != nil {
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			m.cycleOption(opts, step)
			return m, nil
		}
	case "enter":
		t, ctx, values := m.current(), m.ctx, m.formValues()
		return m, func() tea.Msg {
			return savedMsg{err: t.SubmitForm(ctx, values)}
		}
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m Model) mountForm(id *int64) tea.Cmd {
	t, ctx := m.current(), m.ctx
	return func() tea.Msg {
		return formReadyMsg{err: t.MountForm(ctx, id)}
	}
}

func (m *Model) initFormInputs() {
	t := m.current()
	m.formFields = t.FormFields()
	values := t.FormValues()

	inputs := make([]textinput.Model, len(m.formFields))
	for i, f := range m.formFields {
		inputs[i] = textinput.New()
		inputs[i].Prompt = ""
		inputs[i].CharLimit = 255
		inputs[i].Placeholder = placeholder(f)
		inputs[i].SetValue(values[f.Name])
	}

	m.formInputs = inputs
	m.focusIndex = 0
	m.updateFormFocus()
}

func placeholder(f formField) string {
	switch f.Kind {
	case models.KindTime:
		return views.DateTimeLayout
	case models.KindEnum:
		return strings.Join(f.Options, "/")
	case models.KindRef:
		return "id"
	}
	return ""
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) formValues() map[string]string {
	values := make(map[string]string, len(m.formInputs))
	for i, f := range m.formFields {
		values[f.Name] = m.formInputs[i].Value()
	}
	return values
}

// choices lists the values an enum or reference field can take, with ""
// standing for none. Other fields return nil.
func (m Model) choices(i int) []string {
	f := m.formFields[i]
	switch f.Kind {
	case models.KindEnum:
		return append([]string{""}, f.Options...)
	case models.KindRef:
		out := []string{""}
		for _, o := range m.current().FormOptions(f.Name) {
			out = append(out, strconv.FormatInt(o.ID, 10))
		}
		return out
	}
	return nil
}

func (m *Model) cycleOption(opts []string, step int) {
	in := &m.formInputs[m.focusIndex]
	pos := slices.Index(opts, in.Value())
	if pos < 0 {
		pos = 0
	}
	pos = (pos + step + len(opts)) % len(opts)
	in.SetValue(opts[pos])
	in.CursorEnd()
}

// optionHint names the record a reference field points at.
func (m Model) optionHint(i int) string {
	f := m.formFields[i]
	if f.Kind != models.KindRef {
		return ""
	}
	raw := strings.TrimSpace(m.formInputs[i].Value())
	if raw == "" {
		return ""
	}
	for _, o := range m.current().FormOptions(f.Name) {
		if strconv.FormatInt(o.ID, 10) == raw {
			return o.Label
		}
	}
	return "(unknown)"
}
