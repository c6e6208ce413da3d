package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studyhub/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Command is one palette entry.
type Command struct {
	Name        string
	Description string
}

// Model is the command palette view.
type Model struct {
	input    textinput.Model
	commands []Command
	width    int
	height   int
}

// New creates a new command palette model offering commands as
// completions.
func New(commands []Command, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.Focus()
	ti.Width = width - 6

	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	ti.SetSuggestions(names)

	return Model{
		input:    ti,
		commands: commands,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		cmd := strings.ToLower(strings.TrimSpace(m.input.Value()))
		m.input.Reset()
		if cmd != "" {
			return m, func() tea.Msg {
				return CommandMsg(cmd)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Matching returns the commands whose name starts with the current input.
func (m Model) Matching() []Command {
	prefix := strings.ToLower(strings.TrimSpace(m.input.Value()))
	var out []Command
	for _, c := range m.commands {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()

	nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue).Width(18)
	var rows []string
	for _, c := range m.Matching() {
		rows = append(rows, nameStyle.Render(c.Name)+theme.DimmedStyle.Render(c.Description))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, input, "", strings.Join(rows, "\n"))

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}
