package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/winglish-nk/Winglish-bot/internal/drill"
	"github.com/winglish-nk/Winglish-bot/internal/ui/layout"
	"github.com/winglish-nk/Winglish-bot/internal/ui/theme"
)

const banner = `╦ ╦╦╔╗╔╔═╗╦  ╦╔═╗╦ ╦
║║║║║║║║ ╦║  ║╚═╗╠═╣
╚╩╝╩╝╚╝╚═╝╩═╝╩╚═╝╩ ╩`

func (h *HomeScreen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	compact := height < 24

	var sections []string
	if !compact {
		sections = append(sections, theme.Title.Render(banner))
	}
	sections = append(sections, renderStats(h.stats, h.loaded, h.errMsg, cw))
	sections = append(sections, lipgloss.NewStyle().Width(cw).Render(h.menu.View()))

	return layout.Center(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}

// renderStats renders the progress counters in a bordered bar.
func renderStats(st drill.Stats, loaded bool, errMsg string, cw int) string {
	var line string
	switch {
	case errMsg != "":
		line = theme.Incorrect.Render("stats unavailable: " + errMsg)
	case !loaded:
		line = theme.Hint.Render("loading...")
	default:
		parts := []string{}
		if st.Items >= 0 {
			parts = append(parts, theme.Body.Render(fmt.Sprintf("%d words", st.Items)))
		}
		parts = append(parts,
			theme.Body.Render(fmt.Sprintf("%d studied", st.Reviewed)),
			dueText(st.Due),
			lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("%d weak", st.Weak)),
		)
		line = strings.Join(parts, theme.Dimmed.Render("  ·  "))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

func dueText(due int) string {
	if due == 0 {
		return theme.Dimmed.Render("none due")
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%d due", due))
}
