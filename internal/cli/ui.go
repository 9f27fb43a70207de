package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/glorpus-work/nebula/pkg/model"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - headings
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
	styleBorder  = lipgloss.NewStyle().Foreground(colorDim)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
)

// colorEnabled reports whether styled output should be written to stdout.
func colorEnabled() bool {
	if NoColor != nil && *NoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := stdout.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func render(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

func printSuccess(format string, args ...any) {
	_, _ = fmt.Fprintln(stdout, render(styleSuccess, iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printFailure(format string, args ...any) {
	_, _ = fmt.Fprintln(stdout, render(styleError, iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	_, _ = fmt.Fprintln(stderr, render(styleWarning, iconWarning)+" "+fmt.Sprintf(format, args...))
}

func printDetail(text string) {
	if text == "" {
		return
	}
	_, _ = fmt.Fprintln(stdout, render(styleDim, text))
}

// printPhase prints one progress event on stderr.
func printPhase(e model.Event) {
	if e.Phase == "error" {
		printWarning("%s: %s", e.ID, e.Msg)
		return
	}
	msg := e.Msg
	if e.ID != "" && e.ID != e.Msg {
		msg = fmt.Sprintf("%s (%s)", e.Msg, e.ID)
	}
	_, _ = fmt.Fprintln(stderr, render(styleDim, iconInfo+" "+e.Phase+": "+msg))
}

// renderTable renders rows under headers, styled when color is enabled.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...)

	if colorEnabled() {
		t = t.BorderStyle(styleBorder).StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
	} else {
		t = t.StyleFunc(func(int, int) lipgloss.Style { return styleCell.UnsetForeground() })
	}
	return t.String()
}

// writeStructured writes v as JSON or YAML. It returns false for table output.
func writeStructured(format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}
