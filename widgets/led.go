package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LEDStyle is the look of one row of indicator lamps
type LEDStyle struct {
	On, Off       lipgloss.Color
	OnSym, OffSym rune
}

// RenderLED renders a single lamp
func RenderLED(lit bool, s LEDStyle) string {
	if lit {
		return lipgloss.NewStyle().Foreground(s.On).Render(string(s.OnSym))
	}
	return lipgloss.NewStyle().Foreground(s.Off).Render(string(s.OffSym))
}

// RenderLEDRow renders the low n bits of lines, bit 0 leftmost
func RenderLEDRow(lines uint8, n int, s LEDStyle) string {
	var out strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderLED(lines&(1<<uint(i)) != 0, s))
	}
	return out.String()
}

// RenderNumbers renders "1 2 3 ..." to sit under an LED row
func RenderNumbers(n int, color lipgloss.Color) string {
	nums := make([]string, n)
	for i := range nums {
		nums[i] = fmt.Sprintf("%d", i+1)
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Join(nums, " "))
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
