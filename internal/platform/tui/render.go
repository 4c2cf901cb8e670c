package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/codespire/internal/core"
	"github.com/vovakirdan/codespire/internal/registry"
)

// styleFor returns the lipgloss style of a cell color.
func styleFor(c core.Color) lipgloss.Style {
	if code := c.ANSI(); code != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
	}
	return lipgloss.NewStyle()
}

// Prompt box styles.
var (
	promptBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("13")).
			Padding(0, 1)
	promptTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("11"))
	promptChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// RenderScreen converts a Screen buffer to a styled string for display.
func RenderScreen(s *core.Screen) string {
	return strings.Join(renderRows(s, s.Height()), "\n")
}

// renderRows renders the first n rows of the screen.
// Adjacent cells sharing a color are styled as one run.
func renderRows(s *core.Screen, n int) []string {
	n = min(max(n, 0), s.Height())
	rows := make([]string, 0, n)

	var row, run strings.Builder
	for y := range n {
		row.Reset()
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			row.WriteString(styleFor(color).Render(run.String()))
		}
		rows = append(rows, row.String())
	}
	return rows
}

// renderPrompt draws the question box. input is the rendered text field
// and helpLine the rendered key help.
func renderPrompt(p registry.Prompt, input, helpLine string, width int) string {
	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(p.Question)
	for i, c := range p.Choices {
		b.WriteString("\n")
		b.WriteString(promptChoiceStyle.Render(fmt.Sprintf("  %d) %s", i+1, c)))
	}
	b.WriteString("\n\n")
	b.WriteString(input)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpLine))

	// Width excludes the border
	return promptBoxStyle.Width(max(width-2, 20)).Render(b.String())
}
