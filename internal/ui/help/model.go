package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studyhub/internal/keys"
	"github.com/nhle/studyhub/internal/theme"
	"github.com/nhle/studyhub/internal/ui/command"
)

// Model is the help overlay view.
type Model struct {
	keys     *keys.KeyMap
	help     help.Model
	commands []command.Command
	width    int
	height   int
}

// New creates a new help view model listing key bindings and palette
// commands.
func New(k *keys.KeyMap, commands []command.Command, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:     k,
		help:     h,
		commands: commands,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	m.help.Width = m.width - 4
	m.help.ShowAll = true

	sections := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		titleStyle.Render("Commands (press :)"),
	}

	nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue).Width(18)
	for _, c := range m.commands {
		sections = append(sections, nameStyle.Render(c.Name)+theme.DimmedStyle.Render(c.Description))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
