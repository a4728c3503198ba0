package terminal

import (
	"fmt"
	"io"
	"time"

	"todo_e2e/application/suite"
	"todo_e2e/domain/entities"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	pass lipgloss.Style
	fail lipgloss.Style
	dim  lipgloss.Style
	bold lipgloss.Style
}

func newStyles() styles {
	return styles{
		pass: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}).
			Bold(true),
		fail: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
			Bold(true),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		bold: lipgloss.NewStyle().Bold(true),
	}
}

func printReport(w io.Writer, st styles, report entities.Report) {
	for _, res := range report.Results {
		status := st.pass.Render("PASS")
		if !res.Passed() {
			status = st.fail.Render("FAIL")
		}
		fmt.Fprintf(w, "%s %s %s\n", status, res.Name, st.dim.Render(res.Duration.Round(time.Millisecond).String()))
		if res.Error != "" {
			fmt.Fprintf(w, "     %s\n", res.Error)
		}
		if res.Screenshot != "" {
			fmt.Fprintf(w, "     %s\n", st.dim.Render("screenshot: "+res.Screenshot))
		}
	}

	failed := len(report.Failed())
	summary := fmt.Sprintf("%d passed, %d failed", len(report.Results)-failed, failed)
	if failed > 0 {
		summary = st.fail.Render(summary)
	} else {
		summary = st.pass.Render(summary)
	}
	fmt.Fprintf(w, "\n%s %s\n", summary, st.dim.Render("in "+report.Duration.Round(time.Millisecond).String()))
}

func printCases(w io.Writer, st styles, cases []suite.Case) {
	width := 0
	for _, c := range cases {
		width = max(width, len(c.Name))
	}
	for _, c := range cases {
		fmt.Fprintf(w, "%s  %s\n", st.bold.Render(fmt.Sprintf("%-*s", width, c.Name)), c.Description)
	}
}
