package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleDim     = lipgloss.NewStyle().Faint(true)
	styleHeader  = lipgloss.NewStyle().Bold(true)
)

// Console prints human-readable run progress and results.
type Console struct {
	out io.Writer
}

// NewConsole creates a console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Msgf prints a plain progress message.
func (c *Console) Msgf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Successf prints a success message.
func (c *Console) Successf(format string, args ...any) {
	fmt.Fprintln(c.out, styleSuccess.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints an error message.
func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintln(c.out, styleError.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a warning message.
func (c *Console) Warnf(format string, args ...any) {
	fmt.Fprintln(c.out, styleWarn.Render(fmt.Sprintf(format, args...)))
}

// PrintResult renders one check outcome.
func (c *Console) PrintResult(r Result) {
	var badge string
	switch r.Status {
	case StatusPass:
		badge = styleSuccess.Render("[+]")
	case StatusFail:
		badge = styleError.Render("[-]")
	case StatusError:
		badge = styleError.Render("[!]")
	case StatusSkip:
		badge = styleDim.Render("[ ]")
	default:
		badge = styleInfo.Render("[i]")
	}

	fmt.Fprintf(c.out, "%s %s: %s\n", badge, r.CheckID, r.Description)
	if r.Err != "" {
		fmt.Fprintf(c.out, "    %s\n", styleError.Render(r.Err))
	}

	keys := make([]string, 0, len(r.Info))
	for k := range r.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(c.out, "    %s: %s\n", styleDim.Render(k), r.Info[k])
	}
}

// PrintSummary renders the run summary.
func (c *Console) PrintSummary(r *Report) {
	fmt.Fprintln(c.out, styleHeader.Render("summary"))
	fmt.Fprintf(c.out, "  run:     %s\n", r.RunID)
	fmt.Fprintf(c.out, "  mode:    %s\n", r.Mode)
	fmt.Fprintf(c.out, "  targets: %d\n", len(r.Targets))
	fmt.Fprintf(c.out, "  passed %d, failed %d, errors %d, info %d, skipped %d\n",
		r.Summary.Passed, r.Summary.Failed, r.Summary.Errors, r.Summary.Info, r.Summary.Skipped)
}
