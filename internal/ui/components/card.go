package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/winglish-nk/Winglish-bot/internal/ui/theme"
)

// Card wraps content in a bordered box of the given outer width.
func Card(content string, width int) string {
	return theme.Card.Width(width).Render(content)
}

// Button is one entry of a ButtonRow.
type Button struct {
	Key   string
	Label string
}

// ButtonRow renders buttons side by side; the one at active is highlighted.
// active < 0 highlights none.
func ButtonRow(buttons []Button, active int) string {
	rendered := make([]string, len(buttons))
	for i, b := range buttons {
		label := "[" + b.Key + "] " + b.Label
		if i == active {
			rendered[i] = theme.ButtonActive.Render(label)
		} else {
			rendered[i] = theme.ButtonInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}

// Wrap soft-wraps text to width columns.
func Wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(text))
}
