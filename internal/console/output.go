package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

// Output writes styled messages for the interactive session.
type Output struct {
	w io.Writer
}

func NewOutput(w io.Writer) *Output { return &Output{w: w} }

func (o *Output) Title(format string, args ...interface{}) {
	fmt.Fprintln(o.w, titleStyle.Render(fmt.Sprintf(format, args...)))
}

func (o *Output) Heading(format string, args ...interface{}) {
	fmt.Fprintln(o.w, headingStyle.Render(fmt.Sprintf(format, args...)))
}

func (o *Output) Println(s string) {
	fmt.Fprintln(o.w, s)
}

func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.w, format, args...)
}

func (o *Output) Warn(format string, args ...interface{}) {
	fmt.Fprintln(o.w, warnStyle.Render("⚠️ "+fmt.Sprintf(format, args...)))
}

func (o *Output) Error(format string, args ...interface{}) {
	fmt.Fprintln(o.w, errorStyle.Render("❌ "+fmt.Sprintf(format, args...)))
}

func (o *Output) Success(format string, args ...interface{}) {
	fmt.Fprintln(o.w, successStyle.Render("✅ "+fmt.Sprintf(format, args...)))
}
