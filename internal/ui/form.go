package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ytget/soundfetch/internal/download"
)

const (
	fieldName = iota
	fieldCategory
	fieldIcon
	fieldURL
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Category", "Icon", "URL"}

// addForm is the ad-hoc download form
type addForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newAddForm() addForm {
	var f addForm
	placeholders := [fieldCount]string{"Rain on roof", "nature", "🎵 (optional)", "https://..."}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 512
		ti.Width = InputWidth
		ti.Prompt = ""
		ti.TextStyle = lipgloss.NewStyle().Foreground(White)
		ti.PlaceholderStyle = DimStyle
		f.inputs[i] = ti
	}
	return f
}

// Focus focuses the current field
func (f *addForm) Focus() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

// Blur removes focus from every field
func (f *addForm) Blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// Move shifts focus by delta, wrapping around
func (f *addForm) Move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.Focus()
}

// Admission returns the form contents
func (f *addForm) Admission() download.AdmissionForm {
	return download.AdmissionForm{
		Name:     f.inputs[fieldName].Value(),
		Category: f.inputs[fieldCategory].Value(),
		Icon:     f.inputs[fieldIcon].Value(),
		URL:      f.inputs[fieldURL].Value(),
	}
}

// SetAdmission writes form back into the inputs
func (f *addForm) SetAdmission(form download.AdmissionForm) {
	f.inputs[fieldName].SetValue(form.Name)
	f.inputs[fieldCategory].SetValue(form.Category)
	f.inputs[fieldIcon].SetValue(form.Icon)
	f.inputs[fieldURL].SetValue(form.URL)
}

// Update forwards msg to the focused input
func (f *addForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// View renders the form
func (f *addForm) View(focused bool) string {
	rows := make([]string, 0, fieldCount+1)
	rows = append(rows, TitleStyle.Render("Add sound"))
	for i, in := range f.inputs {
		label := SubtitleStyle.Width(10).Render(fieldLabels[i])
		if focused && i == f.focus {
			label = AccentStyle.Width(10).Render(fieldLabels[i])
		}
		rows = append(rows, label+" "+in.View())
	}
	style := PanelStyle
	if focused {
		style = FocusedPanelStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
