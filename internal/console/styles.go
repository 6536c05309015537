// Package console prints styled operator messages.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}).
			Bold(true)

	MenuItemStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.AdaptiveColor{Light: "#262626", Dark: "#d9d9d9"})

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"})

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#b58900", Dark: "#f1fa8c"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#dc322f", Dark: "#ff5555"}).
			Bold(true)

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2aa198", Dark: "#8be9fd"})
)

// Successf prints a green line.
func Successf(w io.Writer, format string, args ...interface{}) {
	printStyled(w, successStyle, format, args...)
}

// Noticef prints a yellow line.
func Noticef(w io.Writer, format string, args ...interface{}) {
	printStyled(w, noticeStyle, format, args...)
}

// Errorf prints a red line.
func Errorf(w io.Writer, format string, args ...interface{}) {
	printStyled(w, errorStyle, format, args...)
}

// Progressf prints a cyan line.
func Progressf(w io.Writer, format string, args ...interface{}) {
	printStyled(w, progressStyle, format, args...)
}

func printStyled(w io.Writer, style lipgloss.Style, format string, args ...interface{}) {
	fmt.Fprintln(w, style.Render(fmt.Sprintf(format, args...)))
}
