// Package tui is the interactive front end: type a question, see the
// answer together with the decision the pipeline took and its step timeline.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SohamAjmera/Agent-Pipeline/internal/trace"
)

// Runner is the TUI-facing subset of the agent controller.
type Runner interface {
	Run(ctx context.Context, query string, persist bool) (string, *trace.Trace, string, error)
}

// Model is the Bubble Tea model for the interactive pipeline.
type Model struct {
	runner    Runner
	persist   bool
	input     textinput.Model
	viewport  viewport.Model
	lastTrace *trace.Trace
	answer    string
	status    string
	ready     bool
}

// New creates a TUI model over the given pipeline runner.
func New(runner Runner, persist bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		runner:   runner,
		persist:  persist,
		input:    ti,
		viewport: vp,
		status:   "Knowledge base indexed. Ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved - ah
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderRun())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			answer, tr, path, err := m.runner.Run(context.Background(), q, m.persist)
			if err != nil {
				m.status = "Error: " + err.Error()
				m.answer, m.lastTrace = "", nil
			} else {
				m.answer, m.lastTrace = answer, tr
				m.status = fmt.Sprintf("Answered %q", q)
				if path != "" {
					m.status += " (trace: " + path + ")"
				}
			}
			m.viewport.SetContent(m.renderRun())
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Agent Pipeline")
	answer := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderRun() string {
	if m.lastTrace == nil {
		return "No runs yet."
	}
	var b strings.Builder
	b.WriteString(answerStyle.Render("Answer") + "\n" + m.answer + "\n\n")
	b.WriteString(answerStyle.Render("Steps") + "\n")
	for _, step := range m.lastTrace.Steps {
		b.WriteString(renderStep(step))
	}
	return b.String()
}

func renderStep(step trace.Step) string {
	switch step.Kind {
	case trace.KindRetrieval:
		results, _ := step.Detail["results"].([]map[string]any)
		return fmt.Sprintf("%s  %d chunks\n", stepStyle.Render(step.Kind), len(results))
	case trace.KindToolDecision:
		return fmt.Sprintf("%s  %v (%v)\n", stepStyle.Render(step.Kind),
			step.Detail["decision"], step.Detail["rationale"])
	case trace.KindToolCall:
		if name, ok := step.Detail["product_name"]; ok {
			return fmt.Sprintf("%s  %v $%v\n", stepStyle.Render(step.Kind),
				name, step.Detail["price_usd"])
		}
		return fmt.Sprintf("%s  no match\n", stepStyle.Render(step.Kind))
	default:
		return stepStyle.Render(step.Kind) + "\n"
	}
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	stepStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
