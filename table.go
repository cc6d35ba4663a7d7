package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Box drawing characters
const (
	topLeft     = "╭"
	topRight    = "╮"
	bottomLeft  = "╰"
	bottomRight = "╯"
	horizontal  = "─"
	vertical    = "│"
	leftT       = "├"
	rightT      = "┤"
	topT        = "┬"
	bottomT     = "┴"
	crossT      = "┼"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(setupDim)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(setupCyan)
	labelStyle  = lipgloss.NewStyle().Foreground(setupGray)
	idStyle     = lipgloss.NewStyle().Foreground(setupGreen)
)

var topologyColumnWidths = []int{24, 30}

// padRight pads a string to the specified display width using runewidth.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}

func borderRow(left, mid, right string) string {
	var sb strings.Builder
	sb.WriteString(borderStyle.Render(left))
	for i, w := range topologyColumnWidths {
		sb.WriteString(borderStyle.Render(strings.Repeat(horizontal, w+2)))
		if i < len(topologyColumnWidths)-1 {
			sb.WriteString(borderStyle.Render(mid))
		}
	}
	sb.WriteString(borderStyle.Render(right))
	return sb.String()
}

// PrintTopologyTable prints (resource, identifier) rows in a styled box table.
func PrintTopologyTable(name string, rows [][2]string) {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("  Topology: %s", name)))
	sb.WriteString("\n")

	sb.WriteString(borderRow(topLeft, topT, topRight))
	sb.WriteString("\n")

	headers := []string{"Resource", "ID"}
	sb.WriteString(borderStyle.Render(vertical))
	for i, h := range headers {
		cell := " " + padRight(h, topologyColumnWidths[i]) + " "
		sb.WriteString(headerStyle.Render(cell))
		sb.WriteString(borderStyle.Render(vertical))
	}
	sb.WriteString("\n")

	sb.WriteString(borderRow(leftT, crossT, rightT))
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString(borderStyle.Render(vertical))
		sb.WriteString(labelStyle.Render(" " + padRight(row[0], topologyColumnWidths[0]) + " "))
		sb.WriteString(borderStyle.Render(vertical))
		sb.WriteString(idStyle.Render(" " + padRight(row[1], topologyColumnWidths[1]) + " "))
		sb.WriteString(borderStyle.Render(vertical))
		sb.WriteString("\n")
	}

	sb.WriteString(borderRow(bottomLeft, bottomT, bottomRight))
	fmt.Println(sb.String())
}
