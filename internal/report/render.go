package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/c2h5oh/datasize"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
)

var writeClipboard = clipboard.WriteAll

var (
	colorPrimary = lipgloss.Color("62")
	colorMuted   = lipgloss.Color("241")
	colorAccent  = lipgloss.Color("204")
	colorBorder  = lipgloss.Color("238")
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	unknownStyle = cellStyle.Foreground(colorMuted)
	failedStyle  = cellStyle.Foreground(colorAccent)
	summaryStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

var columns = []string{"Target", "Type", "Size", "Dimensions", "Count", "Status"}

const (
	colSize = iota + 2
	colDims
	colCount
	colStatus
)

func formatSize(size *int64) string {
	if size == nil {
		return "-"
	}
	if *size < 1024 {
		return fmt.Sprintf("%d B", *size)
	}
	return datasize.ByteSize(*size).HumanReadable()
}

func formatDims(row Row) string {
	if row.Width == nil || row.Height == nil {
		return "-"
	}
	return fmt.Sprintf("%dx%d", *row.Width, *row.Height)
}

// RenderTable draws rows as a styled table followed by a summary line.
func RenderTable(rows []Row) string {
	if len(rows) == 0 {
		return summaryStyle.Render("No image references found.")
	}

	cells := lo.Map(rows, func(row Row, _ int) []string {
		return []string{
			row.Target,
			row.Type,
			formatSize(row.Size),
			formatDims(row),
			fmt.Sprintf("%d", row.Occurrences),
			row.Status,
		}
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(columns...).
		Rows(cells...).
		StyleFunc(func(r, c int) lipgloss.Style {
			// Row 0 is the header; data rows start at 1.
			if r == 0 {
				return headerStyle
			}
			value := ""
			if i := r - 1; i >= 0 && i < len(cells) {
				value = cells[i][c]
			}
			switch {
			case c == colStatus && !strings.HasPrefix(value, "OK("):
				return failedStyle
			case value == "-":
				return unknownStyle
			case c == colSize || c == colCount:
				return numberStyle
			default:
				return cellStyle
			}
		})

	return t.String() + "\n" + summaryStyle.Render(Summary(rows))
}

// RenderPlain renders tab-separated rows with raw byte counts.
func RenderPlain(rows []Row) string {
	var b strings.Builder
	b.WriteString(strings.Join([]string{"target", "type", "size", "width", "height", "occurrences", "status"}, "\t"))
	b.WriteString("\n")
	for _, row := range rows {
		fields := []string{
			row.Target,
			row.Type,
			optional(row.Size),
			optional(row.Width),
			optional(row.Height),
			fmt.Sprintf("%d", row.Occurrences),
			row.Status,
		}
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}

func optional[T int | int64](value *T) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%d", *value)
}

func WriteJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// CopyToClipboard places the plain-text report on the system clipboard.
func CopyToClipboard(rows []Row) error {
	if err := writeClipboard(RenderPlain(rows)); err != nil {
		return fmt.Errorf("copy report: %w", err)
	}
	return nil
}

func Summary(rows []Row) string {
	remote := lo.CountBy(rows, func(row Row) bool { return row.Type == "remote" })
	unknown := lo.CountBy(rows, func(row Row) bool { return row.Size == nil })
	total := lo.SumBy(rows, func(row Row) int64 { return max(row.sortSize(), 0) })
	return fmt.Sprintf(
		"%d targets (%d remote, %d local), %s known, %d unknown size",
		len(rows), remote, len(rows)-remote, formatSize(&total), unknown,
	)
}
