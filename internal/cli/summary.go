// internal/cli/summary.go
package gsmprompt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/gsmprompt/internal/evaluator"
	"github.com/mwiater/gsmprompt/internal/results"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	summaryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

// renderSummary formats the final totals of a run.
func renderSummary(title string, report evaluator.Report, extra ...string) string {
	lines := []string{
		summaryTitleStyle.Render(title),
		fmt.Sprintf("Total Correct: %d / %d", report.Correct, report.Total),
		fmt.Sprintf("Accuracy: %.2f%%", report.Accuracy*100),
	}
	lines = append(lines, extra...)
	return summaryBoxStyle.Render(strings.Join(lines, "\n"))
}

func printSummary(out io.Writer, title string, report evaluator.Report, extra ...string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSummary(title, report, extra...))
}

// saveRun writes the record table and the JSON summary next to it.
func saveRun(out io.Writer, dir, mode string, report evaluator.Report, summary results.Summary) error {
	csvPath := filepath.Join(dir, mode+".csv")
	if err := results.WriteCSV(csvPath, report.Records); err != nil {
		return err
	}
	if err := results.WriteSummary(filepath.Join(dir, mode+".json"), summary); err != nil {
		return err
	}
	fmt.Fprintf(out, "Results saved to %s\n", csvPath)
	return nil
}
