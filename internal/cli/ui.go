package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success
	colorRed   = lipgloss.Color("167") // Soft red - errors
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// styleTitle for main headings.
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// styleDim for secondary/muted text.
	styleDim = lipgloss.NewStyle().Foreground(colorDim)

	// styleValue for data values.
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// styleSuccess for success messages.
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// printTitle writes a bold heading line to stderr.
func printTitle(msg string) {
	fmt.Fprintln(os.Stderr, styleTitle.Render(msg))
}

// printSuccess writes a checkmark line to stderr.
func printSuccess(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", styleIconSuccess.Render("✓"), styleSuccess.Render(msg))
}

// printError writes a cross line to stderr.
func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", styleIconError.Render("✗"), msg)
}

// printKeyValue writes an aligned "key: value" detail line to stderr.
func printKeyValue(key, value string) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", styleDim.Render(key+":"), styleValue.Render(value))
}
