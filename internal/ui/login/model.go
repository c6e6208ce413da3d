package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/studyhub/internal/theme"
)

// SubmitMsg is dispatched when the user submits credentials.
type SubmitMsg struct {
	Email    string
	Password string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
}

// Model is the sign-in form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	apiURL  string
	err     string
	pending bool
	width   int
	height  int
}

// New creates a new login form model for the platform at apiURL.
func New(apiURL string, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		apiURL: apiURL,
		width:  width,
		height: height,
	}
}

// Start resets the form. The last email is kept; the password is not.
func (m *Model) Start(apiURL string) tea.Cmd {
	if apiURL != "" {
		m.apiURL = apiURL
	}
	m.fb.password = ""
	m.err = ""
	m.pending = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Failed shows err and reopens the form for another attempt.
func (m *Model) Failed(err error) tea.Cmd {
	cmd := m.Start("")
	m.err = err.Error()
	return cmd
}

// Pending reports whether a submitted login is awaiting the server.
func (m Model) Pending() bool {
	return m.pending
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.pending {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.pending = true
		submit := SubmitMsg{
			Email:    strings.TrimSpace(m.fb.email),
			Password: m.fb.password,
		}
		return m, func() tea.Msg { return submit }
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the login form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	sections := []string{
		titleStyle.Render("Sign in"),
		theme.DimmedStyle.Render(m.apiURL),
		"",
	}
	if m.err != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.err), "")
	}
	if m.pending {
		sections = append(sections, theme.HelpStyle.Render("Signing in..."))
	} else {
		sections = append(sections, m.form.View())
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 30), 60)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}
