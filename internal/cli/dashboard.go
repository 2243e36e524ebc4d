package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/observability"
)

// Dashboard panel indices.
const (
	panelCards = iota
	panelQuestions
	panelEvents
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	cardCounts map[string]int
	questions  []questionSnapshot
	events     []eventSnapshot

	// State.
	loading bool
	err     error
}

type questionSnapshot struct {
	id   string
	text string
}

type eventSnapshot struct {
	eventType string
	time      string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	cardCounts map[string]int
	questions  []questionSnapshot
	events     []eventSnapshot
	err        error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	statusCompleted = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusFailed    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusParsed    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelCards,
		loading:     true,
		cardCounts:  make(map[string]int),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.cardCounts = msg.cardCounts
		m.questions = msg.questions
		m.events = msg.events
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" MAD Dashboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	cardsPanel := m.renderCardsPanel()
	questionsPanel := m.renderQuestionsPanel()
	eventsPanel := m.renderEventsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		cardsPanel = m.applyPanelStyle(panelCards, cardsPanel, colWidth-4)
		questionsPanel = m.applyPanelStyle(panelQuestions, questionsPanel, colWidth-4)
		eventsPanel = m.applyPanelStyle(panelEvents, eventsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, cardsPanel, questionsPanel, eventsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		cardsPanel = m.applyPanelStyle(panelCards, cardsPanel, panelWidth)
		questionsPanel = m.applyPanelStyle(panelQuestions, questionsPanel, panelWidth)
		eventsPanel = m.applyPanelStyle(panelEvents, eventsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, cardsPanel, questionsPanel, eventsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderCardsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Cards"))
	b.WriteString("\n")

	if len(m.cardCounts) == 0 {
		b.WriteString("  No cards processed.")
		return b.String()
	}

	order := []string{"parsed", "completed", "failed"}
	for _, status := range order {
		count, ok := m.cardCounts[status]
		if !ok || count == 0 {
			continue
		}
		label := fmt.Sprintf("  %-12s %d", status, count)
		b.WriteString(styleForCardStatus(status).Render(label))
		b.WriteString("\n")
	}

	total := 0
	for _, c := range m.cardCounts {
		total += c
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", total))

	return b.String()
}

func (m dashboardModel) renderQuestionsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Pending Questions"))
	b.WriteString("\n")

	if len(m.questions) == 0 {
		b.WriteString("  No pending questions.")
		return b.String()
	}

	for _, q := range m.questions {
		text := q.text
		if len(text) > 60 {
			text = text[:60] + "…"
		}
		b.WriteString(fmt.Sprintf("  [%s] %s\n", q.id, text))
	}

	return b.String()
}

func (m dashboardModel) renderEventsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent Events (24h)"))
	b.WriteString("\n")

	if len(m.events) == 0 {
		b.WriteString("  No recent events.")
		return b.String()
	}

	for _, e := range m.events {
		b.WriteString(fmt.Sprintf("  %s  %s\n", e.time, e.eventType))
	}

	return b.String()
}

func styleForCardStatus(status string) lipgloss.Style {
	switch status {
	case "completed":
		return statusCompleted
	case "failed":
		return statusFailed
	case "parsed":
		return statusParsed
	default:
		return lipgloss.NewStyle()
	}
}

func loadData() tea.Msg {
	result := dataLoadedMsg{
		cardCounts: make(map[string]int),
	}

	if CardStore != nil {
		if err := CardStore.Load(); err != nil {
			result.err = fmt.Errorf("loading cards: %w", err)
			return result
		}
		entries, err := CardStore.GetAllCards()
		if err != nil {
			result.err = fmt.Errorf("loading cards: %w", err)
			return result
		}
		for _, e := range entries {
			result.cardCounts[e.Status]++
		}
	}

	if Interaction != nil {
		for _, q := range Interaction.Tracker().PendingQuestions() {
			result.questions = append(result.questions, questionSnapshot{id: q.ID, text: q.Text})
		}
	}

	if EventLog != nil {
		since := time.Now().UTC().Add(-24 * time.Hour)
		events, err := EventLog.Read(observability.EventFilter{Since: &since})
		if err != nil {
			result.err = fmt.Errorf("loading events: %w", err)
			return result
		}
		// Newest last; keep the tail.
		if len(events) > 15 {
			events = events[len(events)-15:]
		}
		for _, e := range events {
			result.events = append(result.events, eventSnapshot{
				eventType: e.Type,
				time:      e.Time.Format("15:04:05"),
			})
		}
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for cards, questions, and events",
	Long: `Launch an interactive terminal dashboard showing processed cards, pending
questions, and recent pipeline events.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if CardStore == nil {
			return fmt.Errorf("card store not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
