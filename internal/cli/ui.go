package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")  // graph names
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // details
)

var (
	styleName    = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailure = lipgloss.NewStyle().Foreground(colorRed)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

// printer writes the human-facing summary lines. Diagnostics go to the
// logger instead.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer { return &printer{w: w} }

func (p *printer) line(icon lipgloss.Style, mark, msg string) {
	fmt.Fprintln(p.w, icon.Render(mark)+" "+msg)
}

func (p *printer) success(format string, args ...any) {
	p.line(styleSuccess, "✓", fmt.Sprintf(format, args...))
}

func (p *printer) failure(format string, args ...any) {
	p.line(styleFailure, "✗", fmt.Sprintf(format, args...))
}

func (p *printer) warning(format string, args ...any) {
	p.line(styleWarning, "!", styleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) info(format string, args ...any) {
	p.line(styleInfo, "›", fmt.Sprintf(format, args...))
}

// detail prints an indented, muted line.
func (p *printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a path that was written.
func (p *printer) file(path string) {
	fmt.Fprintln(p.w, "    "+styleDim.Render("→")+" "+styleValue.Render(path))
}

func (p *printer) keyValue(key, value string) {
	fmt.Fprintln(p.w, styleKey.Render(key)+" "+styleValue.Render(value))
}

// graph prints the size of one rendered graph.
func (p *printer) graph(name string, nodes, edges int) {
	fmt.Fprintln(p.w, "  "+styleName.Render(name)+
		styleDim.Render(fmt.Sprintf(" · %d nodes · %d edges", nodes, edges)))
}
