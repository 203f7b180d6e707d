package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/winglish-nk/Winglish-bot/internal/router"
	"github.com/winglish-nk/Winglish-bot/internal/screen"
	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/ui/layout"
	"github.com/winglish-nk/Winglish-bot/internal/ui/theme"
)

// SummaryScreen shows the tally of a finished drill.
type SummaryScreen struct {
	drill   string
	summary session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a summary for the drill named drill.
func New(drill string, sum session.Summary) *SummaryScreen {
	return &SummaryScreen{drill: drill, summary: sum}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Drill Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, router.Home
		}
	}
	return s, nil
}

// Accuracy is passed over graded responses; skips do not count.
func Accuracy(sum session.Summary) float64 {
	graded := sum.Passed + sum.Failed
	if graded == 0 {
		return 0
	}
	return float64(sum.Passed) / float64(graded)
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(center.Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("%s complete!", s.drill)))
	b.WriteString("\n\n")

	mins := int(sum.Elapsed.Minutes())
	secs := int(sum.Elapsed.Seconds()) % 60
	b.WriteString(center.Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d items in %d:%02d", sum.Total, mins, secs)))
	b.WriteString("\n\n")

	line := theme.Correct.Render(fmt.Sprintf("%d known", sum.Passed)) + "    " +
		theme.Incorrect.Render(fmt.Sprintf("%d to review", sum.Failed)) + "    " +
		theme.Dimmed.Render(fmt.Sprintf("%d skipped", sum.Skipped))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
	b.WriteString("\n\n")

	if sum.Passed+sum.Failed > 0 {
		b.WriteString(center.Foreground(theme.Text).
			Render(fmt.Sprintf("Accuracy: %.0f%%", Accuracy(sum)*100)))
		b.WriteString("\n")
	}
	if sum.Failed > 0 {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).
			Render("Missed words come back tomorrow and in the weak list."))
	}
	return b.String()
}
