package main

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/aihistory/internal/export"
	"github.com/fyrsmithlabs/aihistory/internal/extraction"
)

// summaryTop is the number of projects shown in the analyze summary.
const summaryTop = 5

// summaryStyles are bound to the output writer so color is dropped when
// the writer is not a terminal.
type summaryStyles struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	title  lipgloss.Style
	dim    lipgloss.Style
	high   lipgloss.Style
	medium lipgloss.Style
	low    lipgloss.Style
}

func newSummaryStyles(w io.Writer) summaryStyles {
	r := lipgloss.NewRenderer(w)
	return summaryStyles{
		header: r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true).MarginTop(1),
		label:  r.NewStyle().Foreground(lipgloss.Color("45")),
		value:  r.NewStyle().Foreground(lipgloss.Color("231")).Bold(true),
		title:  r.NewStyle().Bold(true),
		dim:    r.NewStyle().Foreground(lipgloss.Color("245")),
		high:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		medium: r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		low:    r.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	}
}

func (s summaryStyles) priority(score float64) lipgloss.Style {
	switch {
	case score >= export.HighPriority:
		return s.high
	case score >= export.MediumPriority:
		return s.medium
	default:
		return s.low
	}
}

// printSummary writes the analysis overview and the top projects.
func printSummary(w io.Writer, result *extraction.AnalysisResult) {
	st := newSummaryStyles(w)

	fmt.Fprintln(w, st.header.Render("=== Analysis Summary ==="))
	fmt.Fprintf(w, "%s %s\n", st.label.Render("Platform:"), st.value.Render(result.Platform.String()))
	fmt.Fprintf(w, "%s %s\n", st.label.Render("Conversations Analyzed:"), st.value.Render(fmt.Sprint(result.ConversationsAnalyzed)))
	fmt.Fprintf(w, "%s %s\n", st.label.Render("Unfinished Projects Found:"), st.value.Render(fmt.Sprint(len(result.UnfinishedProjects))))

	if len(result.UnfinishedProjects) == 0 {
		return
	}

	fmt.Fprintln(w, st.header.Render(fmt.Sprintf("Top %d Projects by Priority:", summaryTop)))
	for i, p := range result.UnfinishedProjects {
		if i == summaryTop {
			break
		}
		fmt.Fprintf(w, "\n%d. %s\n", i+1, st.title.Render(p.Title))
		fmt.Fprintf(w, "   %s %s | %s %.2f\n",
			st.label.Render("Priority:"),
			st.priority(p.PriorityScore).Render(fmt.Sprintf("%.2f", p.PriorityScore)),
			st.label.Render("Confidence:"),
			p.Confidence)
		fmt.Fprintf(w, "   %s\n", st.dim.Render(truncate(p.Description, 100)+"..."))
	}
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// shorten fits s into width runes, marking a cut with "...".
func shorten(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return truncate(s, width-3) + "..."
}
