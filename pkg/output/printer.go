// Package output renders the user-facing progress log: one line per
// step, a dry-run prefix on every line when previewing, and a final
// summary.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/termcwd/pkg/types"
)

const dryRunPrefix = "[dry-run] "

var (
	styleChanged   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleUnchanged = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleSkipped   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleFailed    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Printer writes the progress log.
type Printer struct {
	out    io.Writer
	dryRun bool
	color  bool
}

// New creates a printer. colorMode is "auto", "always" or "never".
func New(out io.Writer, dryRun bool, colorMode string) *Printer {
	return &Printer{out: out, dryRun: dryRun, color: useColor(out, colorMode)}
}

func useColor(out io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// Step prints one progress line for a step result.
func (p *Printer) Step(s types.StepResult) {
	glyph, style := "-", styleUnchanged
	switch s.Status {
	case types.StepChanged:
		glyph, style = "✓", styleChanged
	case types.StepSkipped:
		glyph, style = "→", styleSkipped
	case types.StepFailed:
		glyph, style = "✗", styleFailed
	}
	if p.color {
		glyph = style.Render(glyph)
	}

	line := fmt.Sprintf("%s %s", glyph, s.Name)
	if s.Detail != "" {
		line += ": " + s.Detail
	}
	if s.Err != nil {
		line += ": " + s.Err.Error()
	}
	p.println(line)
}

// Summary prints the final line: whether anything changed, nothing was
// necessary, or a dry run completed.
func (p *Printer) Summary(r *types.Report) {
	var msg string
	switch {
	case r.DryRun && r.Changed():
		msg = "Dry run complete. Changes would be made; run again without --dry-run to apply."
	case r.DryRun:
		msg = "Dry run complete. No changes would be made."
	case r.Changed():
		msg = "Done. Restart your terminal for the changes to take effect."
	default:
		msg = "No changes were necessary."
	}
	if p.color {
		msg = pterm.Bold.Sprint(msg)
	}
	p.println("")
	p.println(msg)
}

func (p *Printer) println(line string) {
	if p.dryRun && line != "" {
		line = dryRunPrefix + line
	}
	fmt.Fprintln(p.out, line)
}
