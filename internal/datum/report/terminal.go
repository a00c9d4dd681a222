package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// RenderOptions configures terminal rendering of a report
type RenderOptions struct {
	NoColor bool
}

// Render writes the report to w in a terminal-friendly format: a summary
// header followed by one line per violation.
func Render(w io.Writer, r *Report, opts RenderOptions) {
	headerColor := color.New(color.FgRed, color.Bold)
	ruleColor := color.New(color.FgYellow)
	okColor := color.New(color.FgGreen, color.Bold)
	if opts.NoColor {
		headerColor.DisableColor()
		ruleColor.DisableColor()
		okColor.DisableColor()
	}

	if r.IsAccepted() {
		okColor.Fprintln(w, "✓ Schema is a valid Plutus datum spec")
		return
	}

	headerColor.Fprintf(w, "Schema rejected with %d violation(s):\n\n", r.Len())
	for _, v := range r.Violations() {
		ruleColor.Fprintf(w, "  [%s]", v.Rule)
		fmt.Fprintf(w, " %s", v.TypeDef)
		if v.Path != "" {
			fmt.Fprintf(w, " at %s", v.Path)
		}
		fmt.Fprintf(w, "\n      %s\n", v.Message)
		fmt.Fprintf(w, "      %s:%d:%d\n", v.Location.File, v.Location.Line, v.Location.Column)
	}
}
