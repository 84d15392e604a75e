// Package tui is a terminal blackjack table built on Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	focusLog = iota
	focusInput
)

const sidebarMinWidth = 30

// Model is the Bubble Tea model for a local blackjack game
type Model struct {
	session *Session
	styles  Styles
	logger  *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	focusedPane int
	quitting    bool

	width       int
	height      int
	initialized bool // viewport has been sized once
}

// NewModel creates a model driving session
func NewModel(session *Session, styles Styles, logger *log.Logger) *Model {
	// resized when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "deal, hit, stand, advice, help"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.Input
	ti.Prompt = "> "

	m := &Model{
		session:     session,
		styles:      styles,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: focusInput,
	}
	m.AddLogEntry(styles.Header.Render(" Blackjack "))
	m.AddLogEntry("Type 'deal' to start a round or 'help' for commands.")
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updated dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == focusLog {
				m.focusedPane = focusInput
				m.actionInput.Focus()
			} else {
				m.focusedPane = focusLog
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == focusInput {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.Submit(input) {
					m.quitting = true
					return m, tea.Quit
				}
			}
		case "up", "k":
			if m.focusedPane == focusLog {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == focusLog {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == focusLog {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == focusLog {
				m.logViewport.HalfPageDown()
			}
		case "home":
			if m.focusedPane == focusLog {
				m.logViewport.GotoTop()
			}
		case "end":
			if m.focusedPane == focusLog {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == focusInput {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Submit runs one line of input and logs the outcome. It reports whether
// the player asked to quit.
func (m *Model) Submit(input string) bool {
	if input == "" {
		return false
	}
	m.AddLogEntry(m.styles.Prompt.Render("> ") + input)

	resp, err := m.session.Execute(input)
	if err != nil {
		m.logger.Debug("Command failed", "input", input, "error", err)
		m.AddLogEntry(m.styles.Error.Render("Error: " + err.Error()))
		return false
	}
	for _, line := range resp.Lines {
		m.AddLogEntry(line)
	}
	return resp.Quit
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := m.styles.pane(m.focusedPane == focusInput).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	// Sidebar (right of the log, same height)
	paneHeight := max(m.height-actionHeight-4, 1)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), sidebarMinWidth)
	sidebarPane := m.styles.pane(false).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top left)
	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.SetContent(m.renderLogPane())
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight

	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := m.styles.pane(m.focusedPane == focusLog).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane shows the table and the count dashboard
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	g := m.session.Game()
	content.WriteString(m.styles.Info.Render(fmt.Sprintf("Game %s • %s", g.ID, g.Status)))
	content.WriteString("\n\n")
	content.WriteString(strings.Join(m.session.format.Table(g), "\n"))
	content.WriteString("\n\n")
	content.WriteString(m.session.format.Dashboard(m.session.Count(), m.session.Advice()))

	return content.String()
}

func (m *Model) renderActionPane() string {
	var content strings.Builder

	if p := m.session.HumanTurn(); p != nil {
		content.WriteString(m.styles.HandInfo.Render(
			fmt.Sprintf("Hand: %s  Value: %d", m.session.format.Cards(p.Hand.Cards()), p.Value())))
		content.WriteString("\n")
		content.WriteString(m.styles.Actions.Render("Actions: ") +
			m.styles.Success.Render("[hit]") + " " +
			m.styles.Warning.Render("[stand]") + " " +
			m.styles.Info.Render("[advice]"))
		content.WriteString("\n")
		m.actionInput.Placeholder = "hit, stand or advice"
	} else {
		content.WriteString(m.styles.HandInfo.Render("Waiting..."))
		content.WriteString("\n")
		m.actionInput.Placeholder = "deal, add <skill>, remove <seat>, help, quit"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == focusLog {
		content.WriteString(m.styles.Info.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(m.styles.Info.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return content.String()
}

// AddLogEntry appends to the game log and scrolls to the bottom
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the game log
func (m *Model) Log() []string {
	c := make([]string, len(m.gameLog))
	copy(c, m.gameLog)
	return c
}

// Run starts the program on the alternate screen and blocks until the
// player quits or ctx is cancelled.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
