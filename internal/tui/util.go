package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func lineWidth(value string) int {
	return lipgloss.Width(value)
}

func truncateLogLine(value string, width int) string {
	if width <= 0 {
		return ""
	}
	line := strings.TrimSpace(strings.ReplaceAll(value, "\n", " "))
	if len(line) <= width {
		return line
	}
	if width <= 3 {
		return line[:width]
	}
	return line[:width-3] + "..."
}
