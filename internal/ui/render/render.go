package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22D3EE"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))

	colorEnabled = true
)

// SetColorEnabled toggles the diagnostic palette. Call once at startup,
// before any rendering; rendering itself is safe for concurrent readers.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

func ColorEnabled() bool {
	return colorEnabled
}

func OK(s string) string      { return apply(okStyle, s) }
func Info(s string) string    { return apply(infoStyle, s) }
func Warning(s string) string { return apply(warningStyle, s) }
func Error(s string) string   { return apply(errorStyle, s) }

func apply(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// ClickableLink renders an OSC 8 terminal hyperlink to absPath, displayed as
// "relPath[L<line>]". Terminals without hyperlink support show the display
// text unchanged.
func ClickableLink(relPath, absPath string, line int) string {
	display := fmt.Sprintf("%s[L%d]", relPath, line)
	return fmt.Sprintf("\x1b]8;;file://%s\x1b\\%s\x1b]8;;\x1b\\", absPath, display)
}
