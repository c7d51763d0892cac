package cli

import (
	"fmt"
	"strings"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stackprov/pkg/batch"
)

// recentLines is how many finished packages the batch view lists.
const recentLines = 8

// =============================================================================
// BatchModel - Live batch progress
// =============================================================================

// resultMsg carries one finished package into the program.
type resultMsg batch.Event

// batchDoneMsg ends the program once the run returns.
type batchDoneMsg struct{}

// BatchModel is the bubbletea model that shows batch progress.
type BatchModel struct {
	Total     int
	Done      int
	Licensed  int
	Failed    int
	Recent    []string
	Cancelled bool

	cancel   func()
	spinner  spinner.Model
	progress bprogress.Model
	width    int
}

// NewBatchModel creates a progress view for total packages. cancel is
// invoked when the user quits before the run finishes.
func NewBatchModel(total int, cancel func()) BatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorCyan)
	return BatchModel{
		Total:    total,
		cancel:   cancel,
		spinner:  s,
		progress: bprogress.New(bprogress.WithSolidFill(string(colorCyan)), bprogress.WithoutPercentage()),
		width:    60,
	}
}

func (m BatchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = min(msg.Width-4, 80)
		m.progress.Width = m.width
	case resultMsg:
		m.record(batch.Event(msg))
	case batchDoneMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *BatchModel) record(ev batch.Event) {
	m.Done++
	rec := ev.Record
	line := rec.Identity.String() + " "
	switch {
	case ev.Err != nil:
		m.Failed++
		line += styleIconError.Render(iconError + " store: " + ev.Err.Error())
	case rec.License != nil:
		m.Licensed++
		line += styleIconSuccess.Render(iconSuccess) + " " + rec.License.SPDXExpression + StyleDim.Render(" ("+rec.License.Source.String()+")")
	default:
		line += styleIconWarning.Render(iconWarning + " no license")
	}
	m.Recent = append(m.Recent, line)
	if len(m.Recent) > recentLines {
		m.Recent = m.Recent[len(m.Recent)-recentLines:]
	}
}

func (m BatchModel) View() string {
	var b strings.Builder

	b.WriteString(m.spinner.View() + " " + StyleTitle.Render("Resolving packages"))
	b.WriteString("\n\n")

	pct := 0.0
	if m.Total > 0 {
		pct = float64(m.Done) / float64(m.Total)
	}
	b.WriteString(m.progress.ViewAs(pct))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d/%d done · %d licensed", m.Done, m.Total, m.Licensed)))
	if m.Failed > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf(" · %d store errors", m.Failed)))
	}
	b.WriteString("\n\n")

	for _, line := range m.Recent {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n" + StyleDim.Render("q quit"))
	return b.String()
}
