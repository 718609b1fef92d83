package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	pinnedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	holidayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	totalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
)

// TerminalSink prints tables as aligned, colored text
type TerminalSink struct {
	Writer io.Writer
}

func NewTerminalSink(writer io.Writer) *TerminalSink {
	return &TerminalSink{Writer: writer}
}

func (sink *TerminalSink) Write(table Table) error {
	labelWidth, cellWidth := 0, 0
	for _, row := range table.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		for _, cell := range row.Cells {
			cellWidth = max(cellWidth, lipgloss.Width(cell.Text))
		}
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "%v\n", headerStyle.Render(table.Title))
	for _, row := range table.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, labelStyle.Width(labelWidth+1).Render(row.Label))
		for _, cell := range row.Cells {
			cells = append(cells, terminalStyle(cell.Style).Width(cellWidth+1).Align(lipgloss.Right).Render(cell.Text))
		}
		builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		builder.WriteString("\n")
	}

	_, err := io.WriteString(sink.Writer, builder.String())
	return err
}

// Pinned takes precedence over holiday so a pinned holiday still reads as pinned
func terminalStyle(style Style) lipgloss.Style {
	switch {
	case style.Header:
		return headerStyle
	case style.Pinned:
		return pinnedStyle
	case style.Holiday:
		return holidayStyle
	case style.Total:
		return totalStyle
	}
	return lipgloss.NewStyle()
}
