// Package output prints user-facing messages.
//
// Status lines are coloured with fatih/color; the plan summary and the step
// report are laid out with lipgloss. Results go to stdout; prompts and
// warnings go to Interactive, which is stderr unless replaced. Debug detail
// belongs to the logger package.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	promptColor  = color.New(color.Bold)
)

// Interactive receives prompts and warnings.
var Interactive io.Writer = os.Stderr

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Faint(true)
)

// JSON outputs data as indented JSON
func JSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Table prints rows under headers with a normal border.
// Rows longer than headers are truncated and shorter rows are padded.
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		t.Row(cells...)
	}
	fmt.Println(t.String())
}

// Summary prints a titled box of key/value rows with aligned keys
func Summary(title string, rows [][2]string) {
	width := 0
	for _, row := range rows {
		if w := lipgloss.Width(row[0]); w > width {
			width = w
		}
	}

	lines := []string{titleStyle.Render(title)}
	for _, row := range rows {
		key := keyStyle.Width(width).Render(row[0])
		lines = append(lines, key+"  "+row[1])
	}
	fmt.Println(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

// Prompt prints a question and leaves the cursor on the same line
func Prompt(format string, args ...interface{}) {
	_, _ = promptColor.Fprintf(Interactive, format+" ", args...)
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	_, _ = successColor.Printf("✓ "+format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	_, _ = errorColor.Printf("✗ "+format+"\n", args...)
}

// Warn prints a warning message
func Warn(format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(Interactive, "! "+format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	_, _ = infoColor.Printf("→ "+format+"\n", args...)
}

// Print prints a plain message
func Print(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
