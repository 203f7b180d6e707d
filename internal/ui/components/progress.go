package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/winglish-nk/Winglish-bot/internal/ui/theme"
)

// Progress is a "position / total" bar for a drill batch.
type Progress struct {
	Position int
	Total    int
	Width    int
}

// Fraction returns how much of the batch is done, in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Position) / float64(p.Total)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// View renders the bar followed by the counter.
func (p Progress) View() string {
	counter := fmt.Sprintf("  %d/%d", p.Position, p.Total)
	barWidth := p.Width - lipgloss.Width(counter)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction())
	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Dimmed.Render(counter)
}
