package drill

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/winglish-nk/Winglish-bot/internal/content"
	"github.com/winglish-nk/Winglish-bot/internal/ui/components"
	"github.com/winglish-nk/Winglish-bot/internal/ui/layout"
	"github.com/winglish-nk/Winglish-bot/internal/ui/theme"
)

var cardButtons = []components.Button{
	{Key: "K", Label: "Known"},
	{Key: "U", Label: "Unsure"},
	{Key: "N", Label: "Next"},
}

func (s *Screen) View(width, height int) string {
	if s.fatal {
		return layout.Center(theme.Incorrect.Render(s.errMsg), width, height)
	}
	if !s.started {
		return layout.Center(theme.Hint.Render("Preparing your drill..."), width, height)
	}

	cw := layout.ContentWidth(width)
	var b strings.Builder

	b.WriteString(components.Progress{Position: s.cur.Position, Total: s.cur.Total, Width: cw}.View())
	b.WriteString("\n\n")

	item := s.cur.Item
	switch item.Kind {
	case content.KindCard:
		b.WriteString(components.Card(renderCard(item, s.revealed, cw-4), cw))
		b.WriteString("\n\n")
		b.WriteString(components.ButtonRow(cardButtons, -1))
	case content.KindChoice:
		b.WriteString(components.Card(
			theme.Body.Bold(true).Render(components.Wrap(item.Prompt, cw-8))+"\n\n"+s.choice.View(), cw))
	default:
		b.WriteString(components.Card(
			theme.Body.Bold(true).Render(components.Wrap(item.Prompt, cw-8))+"\n\n"+s.input.View(), cw))
	}

	if s.graded {
		b.WriteString("\n\n")
		b.WriteString(s.renderVerdict(item, cw))
	}
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}
	if s.waiting {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Saving..."))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// renderCard shows the headword, and the rest of the card once revealed.
func renderCard(it content.Item, revealed bool, width int) string {
	head := theme.Word.Render(it.Prompt)
	if it.PartOfSpeech != "" {
		head += "  " + theme.Hint.Render(it.PartOfSpeech)
	}
	if !revealed {
		return head + "\n\n" + theme.Hint.Render("Space to show the meaning")
	}

	lines := []string{head, "", theme.Body.Render(components.Wrap(it.Meaning, width))}
	if it.ExampleEN != "" {
		lines = append(lines, "", theme.Body.Render(components.Wrap(it.ExampleEN, width)))
		if it.ExampleJA != "" {
			lines = append(lines, theme.Dimmed.Render(components.Wrap(it.ExampleJA, width)))
		}
	}
	if len(it.Synonyms) > 0 {
		lines = append(lines, "", theme.Dimmed.Render("synonyms: "+strings.Join(it.Synonyms, ", ")))
	}
	if len(it.Derived) > 0 {
		lines = append(lines, theme.Dimmed.Render("derived: "+strings.Join(it.Derived, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) renderVerdict(it content.Item, width int) string {
	if s.correct {
		return theme.Correct.Render("Correct!")
	}
	v := theme.Incorrect.Render("Not quite.")
	if it.Kind == content.KindFreeText {
		v += "\n" + theme.Dimmed.Render(components.Wrap("Reference: "+it.Reference, width))
	}
	return v
}
