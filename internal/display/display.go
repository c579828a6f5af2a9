// Package display renders pipeline outcomes for the terminal.
package display

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/voice2doc/internal/pipeline"
)

var (
	acceptedStyle = lipgloss.NewStyle().Bold(true).Foreground(DefaultColors.Green)
	rejectedStyle = lipgloss.NewStyle().Bold(true).Foreground(DefaultColors.Yellow)
	failedStyle   = lipgloss.NewStyle().Bold(true).Foreground(DefaultColors.Red)
	sectionStyle  = lipgloss.NewStyle().Foreground(DefaultColors.Blue)
	mutedStyle    = lipgloss.NewStyle().Foreground(DefaultColors.MutedText)
)

// WriteOutcome prints a styled report of a pipeline run.
func WriteOutcome(w io.Writer, outcome *pipeline.Outcome) {
	switch outcome.State {
	case pipeline.StateAccepted:
		fmt.Fprintf(w, "%s\n", acceptedStyle.Render(fmt.Sprintf("%s Accepted: %s document", iconAccepted, outcome.Template.TypeID)))
	case pipeline.StateRejected:
		fmt.Fprintf(w, "%s\n", rejectedStyle.Render(fmt.Sprintf("%s Rejected: %s document needs more input", iconRejected, outcome.Template.TypeID)))
	default:
		fmt.Fprintf(w, "%s\n", failedStyle.Render(fmt.Sprintf("%s Failed", iconFailed)))
		return
	}

	fmt.Fprintf(w, "%s\n", mutedStyle.Render(fmt.Sprintf(
		"run %s · %d utterances · classified %s (%.0f%%)",
		outcome.RunID, outcome.UtteranceCount,
		outcome.Classification.TypeID, outcome.Classification.Confidence*100)))

	writeScores(w, outcome)

	fmt.Fprintln(w)
	for _, section := range outcome.Document.Sections {
		marker := "·"
		if len(section.Fragments) > 0 {
			marker = iconSection
		}
		fmt.Fprintf(w, "  %s %s %s\n",
			sectionStyle.Render(marker),
			section.Name,
			mutedStyle.Render(fmt.Sprintf("(%d)", len(section.Fragments))))
	}
	if n := len(outcome.Document.Unassigned); n > 0 {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(fmt.Sprintf("· unassigned (%d)", n)))
	}

	if outcome.Validation == nil {
		return
	}
	if len(outcome.Validation.MissingRequired) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n", rejectedStyle.Render("Missing required sections:"))
		for _, name := range outcome.Validation.MissingRequired {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
	for _, warning := range outcome.Validation.Warnings {
		fmt.Fprintf(w, "%s\n", mutedStyle.Render("warning: "+warning))
	}
}

// writeScores lists each template candidate's score, best first.
func writeScores(w io.Writer, outcome *pipeline.Outcome) {
	type row struct {
		typeID string
		final  float64
	}
	rows := make([]row, 0, len(outcome.Classification.Scores))
	for typeID, score := range outcome.Classification.Scores {
		rows = append(rows, row{typeID: typeID, final: score.Final})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].final != rows[j].final {
			return rows[i].final > rows[j].final
		}
		return rows[i].typeID < rows[j].typeID
	})
	for _, r := range rows {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(fmt.Sprintf("%-8s %.2f", r.typeID, r.final)))
	}
}
