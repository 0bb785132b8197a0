package tui

import (
	"fmt"
	"strings"
	"time"
)

func (m Progress) View() string {
	if m.finished {
		return statusStyle.Render(fmt.Sprintf("Probed %d targets in %s", m.done, m.elapsed())) + "\n"
	}

	line := fmt.Sprintf("%s %s %s",
		m.spinner.View(),
		titleStyle.Render(fmt.Sprintf("Probing %d/%d", m.done, m.total)),
		statusStyle.Render(m.elapsed()),
	)
	if m.failed > 0 {
		line += " " + failedStyle.Render(fmt.Sprintf("%d with errors", m.failed))
	}
	if m.current != "" {
		line += " " + statusStyle.Render(truncateLogLine(m.current, maxInt(10, m.width-lineWidth(line)-1)))
	}

	sections := []string{line}
	if m.debug {
		sections = append(sections, m.renderLogs())
	}
	return strings.Join(sections, "\n") + "\n"
}

func (m Progress) elapsed() string {
	return time.Since(m.started).Round(100 * time.Millisecond).String()
}

func (m Progress) renderLogs() string {
	contentWidth := maxInt(10, m.width-6)

	lines := []string{logTitleStyle.Render("Requests")}
	visible := m.visibleLogs()
	if len(visible) == 0 {
		lines = append(lines, emptyStyle.Render("(no requests yet)"))
		for i := 1; i < maxVisibleLogs; i++ {
			lines = append(lines, "")
		}
	} else {
		for _, entry := range visible {
			lines = append(lines, truncateLogLine(entry, contentWidth))
		}
		for len(lines) < maxVisibleLogs+1 {
			lines = append(lines, "")
		}
	}
	return logBoxStyle.Width(maxInt(20, m.width-2)).Render(strings.Join(lines, "\n"))
}

func (m Progress) visibleLogs() []string {
	if len(m.logs) == 0 {
		return nil
	}
	count := minInt(len(m.logs), maxVisibleLogs)
	return m.logs[len(m.logs)-count:]
}
