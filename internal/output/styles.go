package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: named constants for the ANSI 256 colors used in the CLI.
var (
	// ColorCyan is used for identifiable nouns: type names, definition names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for primary units and registered definitions.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for imported units and overridden definitions.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for problems and errors.
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (type names, definition names).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators, origins).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Styles groups the styles used by renderers.
type Styles struct {
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

var defaultStyles = &Styles{
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Faint(true),
	Success: lipgloss.NewStyle().Foreground(ColorGreen),
	Warning: lipgloss.NewStyle().Foreground(ColorYellow),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed),
}

// GetStyles returns the default styles.
func GetStyles() *Styles {
	return defaultStyles
}

// Unit and definition status constants.
const (
	StatusPrimary    = "primary"
	StatusImported   = "imported"
	StatusScanned    = "scanned"
	StatusRegistered = "registered"
	StatusProblem    = "problem"
)

// StatusStyle returns the lipgloss style for a given status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusPrimary, StatusRegistered:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusImported:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusScanned:
		return lipgloss.NewStyle().Faint(true)
	case StatusProblem:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minNameColumnWidth keeps status words aligned.
const minNameColumnWidth = 48

// FormatStatusLine renders a name with a right-aligned, color-coded status suffix.
func FormatStatusLine(name, status string) string {
	padding := minNameColumnWidth - len(name)
	if padding < 2 {
		padding = 2
	}
	return StyleNoun.Render(name) + strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
