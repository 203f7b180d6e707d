package reading

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	core "github.com/winglish-nk/Winglish-bot/internal/reading"
	"github.com/winglish-nk/Winglish-bot/internal/ui/components"
	"github.com/winglish-nk/Winglish-bot/internal/ui/layout"
	"github.com/winglish-nk/Winglish-bot/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch {
	case s.fatal:
		return layout.Center(theme.Incorrect.Render(s.errMsg), width, height)
	case !s.started:
		return layout.Center(s.spinner.View()+" "+theme.Hint.Render("Writing a passage for you..."), width, height)
	case s.result != nil:
		return s.renderResult(width)
	}

	cw := layout.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.Passage.Render(components.Wrap(s.prompt.Passage, cw-4)))
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Render(fmt.Sprintf("Q%d/%d", s.prompt.Number, core.Questions)))
	b.WriteString("  ")
	b.WriteString(theme.Body.Bold(true).Render(components.Wrap(s.prompt.Text, cw-8)))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.busy {
		b.WriteString("\n")
		b.WriteString(s.spinner.View() + " " + theme.Hint.Render("Grading your answers..."))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *Screen) renderResult(width int) string {
	res := s.result
	cw := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Score %d/%d", res.Score, core.Questions)))
	b.WriteString("\n\n")

	for i := 0; i < core.Questions; i++ {
		mark := theme.Correct.Render("✓")
		if !res.Correct[i] {
			mark = theme.Incorrect.Render("✗")
		}
		b.WriteString(fmt.Sprintf("%s Q%d  your answer %s, correct %s\n", mark, i+1, res.Answers[i], res.Expected[i]))
		if res.Feedback != nil && i < len(res.Feedback.Questions) {
			fb := res.Feedback.Questions[i]
			if fb.Reason != "" {
				b.WriteString(theme.Body.Render(components.Wrap(fb.Reason, cw-2)))
				b.WriteString("\n")
			}
			if fb.Feedback != "" {
				b.WriteString(theme.Dimmed.Render(components.Wrap(fb.Feedback, cw-2)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if res.Feedback != nil && res.Feedback.Overall != "" {
		b.WriteString(components.Card(components.Wrap(res.Feedback.Overall, cw-6), cw))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
