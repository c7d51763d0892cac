package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stackprov/pkg/batch"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleOutcomeOK   = lipgloss.NewStyle().Foreground(colorGreen)
	styleOutcomeBad  = lipgloss.NewStyle().Foreground(colorRed)
	styleOutcomeSkip = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconNone    = "—"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Records
// =============================================================================

// renderRecord formats a record for the terminal: a key/value block
// followed by the stage diagnostics as a table.
func renderRecord(rec *provenance.ProvenanceRecord) string {
	var b strings.Builder
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	kv := func(key, value string) {
		b.WriteString(keyStyle.Render(key) + " " + value + "\n")
	}

	b.WriteString(StyleTitle.Render(rec.Identity.String()) + "\n")

	repo := StyleDim.Render(iconNone)
	if rec.RepositoryURL != "" {
		repo = StyleLink.Render(rec.RepositoryURL)
	}
	kv("Repository", repo)

	tag := StyleDim.Render(iconNone)
	if rec.ResolvedTag.Matched() {
		tag = StyleValue.Render(rec.ResolvedTag.TagName()) + " " + StyleDim.Render("("+string(rec.ResolvedTag.Confidence)+")")
	} else if rec.ResolvedTag.Ambiguous {
		tag = StyleWarning.Render("ambiguous")
	}
	kv("Tag", tag)

	lic := StyleDim.Render(iconNone)
	if rec.License != nil {
		lic = StyleValue.Render(rec.License.SPDXExpression) + " " + StyleDim.Render("("+rec.License.Source.String()+")")
	}
	kv("License", lic)
	for _, alt := range rec.LicenseAlternatives {
		if rec.License != nil && alt == *rec.License {
			continue
		}
		detail := alt.Source.String()
		if alt.FilePath != "" {
			detail += " " + alt.FilePath
		}
		kv("", StyleDim.Render(alt.SPDXExpression+" ("+detail+")"))
	}

	if len(rec.Diagnostics) > 0 {
		rows := make([][]string, 0, len(rec.Diagnostics))
		for _, d := range rec.Diagnostics {
			rows = append(rows, []string{string(d.Stage), renderOutcome(d.Outcome), d.Duration.Round(time.Millisecond).String(), d.Detail})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Stage", "Outcome", "Took", "Detail").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				s := lipgloss.NewStyle().Padding(0, 1)
				if row == table.HeaderRow {
					return s.Foreground(colorGray).Bold(true)
				}
				return s
			})
		b.WriteString(t.Render() + "\n")
	}
	return b.String()
}

func renderOutcome(o provenance.Outcome) string {
	switch o {
	case provenance.OutcomeOK:
		return styleOutcomeOK.Render(string(o))
	case provenance.OutcomeSkipped, provenance.OutcomeEmpty:
		return styleOutcomeSkip.Render(string(o))
	default:
		return styleOutcomeBad.Render(string(o))
	}
}

// printSummary prints batch coverage counts.
func printSummary(w io.Writer, s batch.Summary) {
	pct := func(n int) string {
		if s.Total == 0 {
			return "0%"
		}
		return fmt.Sprintf("%d%%", n*100/s.Total)
	}
	fmt.Fprintf(w, "  %s licensed %s\n", StyleNumber.Render(fmt.Sprintf("%d/%d", s.Licensed, s.Total)), StyleDim.Render(pct(s.Licensed)))
	fmt.Fprintf(w, "  %s tagged %s\n", StyleNumber.Render(fmt.Sprintf("%d/%d", s.Tagged, s.Total)), StyleDim.Render(pct(s.Tagged)))

	srcs := make([]string, 0, len(s.BySource))
	for src := range s.BySource {
		srcs = append(srcs, src)
	}
	sort.Strings(srcs)
	for _, src := range srcs {
		fmt.Fprintf(w, "  %s %s\n", StyleDim.Render(iconArrow+" "+src), StyleValue.Render(fmt.Sprint(s.BySource[src])))
	}
	if s.Unresolved > 0 {
		fmt.Fprintf(w, "  %s\n", StyleWarning.Render(fmt.Sprintf("%d without license", s.Unresolved)))
	}
}
