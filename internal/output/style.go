package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

var (
	ColorPrimary = lipgloss.Color("#64b5f6")
	ColorSuccess = lipgloss.Color("#66bb6a")
	ColorWarning = lipgloss.Color("#ffb74d")
	ColorError   = lipgloss.Color("#ef5350")
	ColorMuted   = lipgloss.Color("#888888")
)

var (
	// StyleHeader is used for titles and section headers.
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// StyleMuted is used for secondary text.
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	badgeBeginner = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
	badgeIntermediate = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
	badgeAdvanced = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)
)

var noColor bool

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetNoColor disables or enables color output for both the lipgloss styles
// and the fatih/color prefixes.
func SetNoColor(disabled bool) {
	noColor = disabled
	color.NoColor = disabled
	if disabled {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StyleMuted = plain
		badgeBeginner = plain
		badgeIntermediate = plain
		badgeAdvanced = plain
	}
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// ConfigureColor disables color when forced or when stdout is not a terminal.
func ConfigureColor(force bool) {
	SetNoColor(force || !IsTerminal(os.Stdout))
}

// DifficultyBadge renders the difficulty in its color.
func DifficultyBadge(d model.Difficulty) string {
	switch d {
	case model.DifficultyBeginner:
		return badgeBeginner.Render(string(d))
	case model.DifficultyIntermediate:
		return badgeIntermediate.Render(string(d))
	case model.DifficultyAdvanced:
		return badgeAdvanced.Render(string(d))
	default:
		return string(d)
	}
}
