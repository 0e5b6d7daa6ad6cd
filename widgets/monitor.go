package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderCell renders a single colored symbol
func RenderCell(color [3]uint8, symbol rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(symbol))
}

// ChannelCell is the state of one channel in the activity strip
type ChannelCell struct {
	Color  [3]uint8
	Symbol rune
}

// RenderChannelStrip renders channels 1-16 as two lines: numbers, then one
// cell per channel
func RenderChannelStrip(cells [16]ChannelCell) string {
	var nums, marks strings.Builder
	for i, c := range cells {
		if i > 0 {
			nums.WriteString(" ")
			marks.WriteString(" ")
		}
		nums.WriteString(fmt.Sprintf("%2d", i+1))
		marks.WriteString(" ")
		marks.WriteString(RenderCell(c.Color, c.Symbol))
	}
	return nums.String() + "\n" + marks.String()
}

// RenderMessageLine formats one decoded message: "port  hex  text", the
// text in the kind's color
func RenderMessageLine(color [3]uint8, port string, raw []byte, text string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return fmt.Sprintf("%-20s %-9s %s", truncate(port, 20), fmt.Sprintf("% X", raw), style.Render(text))
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
