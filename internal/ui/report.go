package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Reporter writes the user-facing outcome of each step, one line each.
type Reporter struct {
	out      io.Writer
	success  lipgloss.Style
	danger   lipgloss.Style
	muted    lipgloss.Style
	failures int
}

// NewReporter styles lines for out; color is dropped when out is not a terminal.
func NewReporter(out io.Writer) *Reporter {
	r := lipgloss.NewRenderer(out)
	return &Reporter{
		out:     out,
		success: Success.Renderer(r),
		danger:  Danger.Renderer(r),
		muted:   Muted.Renderer(r),
	}
}

func (r *Reporter) Successf(format string, args ...any) {
	fmt.Fprintln(r.out, r.success.Render("✅ "+fmt.Sprintf(format, args...)))
}

func (r *Reporter) Failuref(format string, args ...any) {
	r.failures++
	fmt.Fprintln(r.out, r.danger.Render("❌ "+fmt.Sprintf(format, args...)))
}

func (r *Reporter) Detailf(format string, args ...any) {
	fmt.Fprintln(r.out, r.muted.Render(fmt.Sprintf(format, args...)))
}

func (r *Reporter) Failures() int {
	return r.failures
}
