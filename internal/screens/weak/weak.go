package weak

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/winglish-nk/Winglish-bot/internal/drill"
	"github.com/winglish-nk/Winglish-bot/internal/router"
	"github.com/winglish-nk/Winglish-bot/internal/screen"
	drillscreen "github.com/winglish-nk/Winglish-bot/internal/screens/drill"
	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/spacedrep"
	"github.com/winglish-nk/Winglish-bot/internal/ui/layout"
	"github.com/winglish-nk/Winglish-bot/internal/ui/theme"
)

type weakLoadedMsg struct {
	Items []drill.WeakItem
	Err   error
}

// WeakScreen lists the user's weakest words and starts a drill over them.
type WeakScreen struct {
	ctl      *drill.Controller
	userID   string
	now      func() time.Time
	items    []drill.WeakItem
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*WeakScreen)(nil)
var _ screen.KeyHintProvider = (*WeakScreen)(nil)

// New creates a WeakScreen for userID.
func New(ctl *drill.Controller, userID string) *WeakScreen {
	return &WeakScreen{
		ctl:      ctl,
		userID:   userID,
		now:      time.Now,
		expanded: make(map[int]bool),
	}
}

func (s *WeakScreen) Init() tea.Cmd {
	return func() tea.Msg {
		items, err := s.ctl.WeakItems(context.Background(), s.userID)
		return weakLoadedMsg{Items: items, Err: err}
	}
}

func (s *WeakScreen) Title() string {
	return "Weak Words"
}

func (s *WeakScreen) KeyHints() []layout.KeyHint {
	if len(s.items) == 0 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "D", Description: "Drill these"},
		{Key: "Enter", Description: "Meaning"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WeakScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case weakLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.items = msg.Items
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		case "d":
			if len(s.items) == 0 {
				return s, nil
			}
			ctl, user := s.ctl, s.userID
			return s, router.Replace(drillscreen.New(ctl, user, "Weak words",
				func(ctx context.Context) (*session.Session, error) {
					return ctl.StartWeak(ctx, user)
				}))
		}
	}
	return s, nil
}

func (s *WeakScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\nLoading weak words...")
	case len(s.items) == 0:
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\nNo weak words. Nice work!")
	}

	now := s.now()
	var b strings.Builder
	b.WriteString("\n")
	for i, w := range s.items {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%-20s  streak %d  %s", prefix, w.Item.Prompt, w.State.ConsecutiveCorrect, dueText(w.State, now))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			meaning := w.Item.Meaning
			if meaning == "" {
				meaning = w.Item.Reference
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("    "+meaning)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func dueText(rs spacedrep.ReviewState, now time.Time) string {
	switch rs.Status(now) {
	case spacedrep.ReviewOverdue:
		return fmt.Sprintf("overdue %dd", rs.OverdueDays(now))
	case spacedrep.ReviewDue:
		return "due today"
	}
	return fmt.Sprintf("in %dd", rs.DaysUntilReview(now))
}
