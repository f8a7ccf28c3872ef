package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"compass/internal/domain"
	"compass/internal/errs"
)

// RecommenderPort is the TUI-facing subset of the recommendation engine.
type RecommenderPort interface {
	Recommend(ctx context.Context, customerID int) (domain.RecommendationResult, error)
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	engine   RecommenderPort
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	summary  string
	status   string
	result   *domain.RecommendationResult
	waiting  bool
	ready    bool
	lastID   int
}

type recommendationMsg struct {
	result domain.RecommendationResult
	err    error
}

// New creates a new TUI model instance.
func New(engine RecommenderPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter customer ID and press Enter"
	ti.Focus()
	ti.CharLimit = 12
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	vp := viewport.New(0, 0)
	return Model{engine: engine, input: ti, viewport: vp, spinner: sp, summary: summary, status: "Ready. Enter a customer ID."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case recommendationMsg:
		m.waiting = false
		if msg.err != nil {
			m.result = nil
			if errs.IsNotFound(msg.err) {
				m.status = fmt.Sprintf("No customer with ID %d.", m.lastID)
			} else {
				m.status = "Error: " + msg.err.Error()
			}
		} else {
			res := msg.result
			m.result = &res
			m.status = fmt.Sprintf("Recommendation for customer %d", m.lastID)
		}
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.waiting {
				return m, nil
			}
			raw := strings.TrimSpace(m.input.Value())
			if raw == "" {
				return m, nil
			}
			id, err := strconv.Atoi(raw)
			if err != nil {
				m.status = fmt.Sprintf("%q is not a customer ID", raw)
				return m, nil
			}
			m.lastID = id
			m.waiting = true
			m.status = fmt.Sprintf("Analyzing customer %d...", id)
			return m, tea.Batch(m.spinner.Tick, recommendCmd(m.engine, id))
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func recommendCmd(engine RecommenderPort, customerID int) tea.Cmd {
	return func() tea.Msg {
		res, err := engine.Recommend(context.Background(), customerID)
		return recommendationMsg{result: res, err: err}
	}
}

// View renders the TUI layout and current recommendation.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("COMPASS: Customer Opportunity Mapping")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	if m.waiting {
		status = m.spinner.View() + " " + status
	}
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "No recommendation yet."
	}
	var b strings.Builder
	b.WriteString(recommendationStyle.Render("Recommendation"))
	b.WriteString("\n\n")
	b.WriteString(m.result.Text)
	b.WriteString("\n\n")
	b.WriteString(recommendationStyle.Render("Retrieved products"))
	b.WriteString("\n")
	for i, doc := range m.result.Retrieved {
		fmt.Fprintf(&b, "%d. %s\n", i+1, firstLine(doc.Text))
	}
	return b.String()
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return text
}

var (
	resultBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	recommendationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
