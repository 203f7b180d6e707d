// Package drill is the terminal screen for vocabulary and quiz drills.
package drill

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/winglish-nk/Winglish-bot/internal/content"
	core "github.com/winglish-nk/Winglish-bot/internal/drill"
	"github.com/winglish-nk/Winglish-bot/internal/router"
	"github.com/winglish-nk/Winglish-bot/internal/screen"
	"github.com/winglish-nk/Winglish-bot/internal/screens/summary"
	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/ui/components"
	"github.com/winglish-nk/Winglish-bot/internal/ui/layout"
)

// StartFunc creates the batch the screen drills.
type StartFunc func(ctx context.Context) (*session.Session, error)

// Screen presents one item at a time and forwards responses to the
// drill controller.
type Screen struct {
	ctl    *core.Controller
	userID string
	title  string
	start  StartFunc

	cur      core.Presentation
	started  bool
	waiting  bool // a response is in flight
	revealed bool // card meaning is showing
	choice   components.Choice
	input    components.TextInput

	// After a graded answer the result stays on screen until a key is
	// pressed; pending holds the outcome to move on to.
	graded  bool
	correct bool
	pending *core.Outcome

	errMsg string
	fatal  bool // the drill cannot continue; any key leaves
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BackInterceptor = (*Screen)(nil)

// New creates a drill screen. start runs once, from Init.
func New(ctl *core.Controller, userID, title string, start StartFunc) *Screen {
	return &Screen{ctl: ctl, userID: userID, title: title, start: start}
}

func (s *Screen) Init() tea.Cmd {
	return func() tea.Msg {
		sess, err := s.start(context.Background())
		if err != nil {
			return startedMsg{Err: err}
		}
		return startedMsg{Next: s.ctl.Present(sess)}
	}
}

func (s *Screen) Title() string {
	return s.title
}

func (s *Screen) InterceptBack() bool {
	return true
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.fatal || !s.started:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.graded:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	switch s.cur.Item.Kind {
	case content.KindCard:
		return []layout.KeyHint{
			{Key: "Space", Description: "Show meaning"},
			{Key: "K", Description: "Known"},
			{Key: "U", Description: "Unsure"},
			{Key: "N", Description: "Next"},
			{Key: "Esc", Description: "Quit drill"},
		}
	case content.KindChoice:
		return []layout.KeyHint{
			{Key: "A-D", Description: "Answer"},
			{Key: "Tab", Description: "Skip"},
			{Key: "Esc", Description: "Quit drill"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Tab", Description: "Skip"},
		{Key: "Esc", Description: "Quit drill"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.Err != nil {
			s.fail(msg.Err)
			return s, nil
		}
		s.started = true
		return s, s.show(msg.Next)

	case outcomeMsg:
		return s.handleOutcome(msg)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.inputActive() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		if s.started && !s.fatal {
			// No live session just means it already expired or completed.
			_, _ = s.ctl.Cancel(s.userID)
		}
		return s, router.Pop
	}
	if s.fatal || !s.started || s.waiting {
		return s, nil
	}

	if s.graded {
		return s.proceed()
	}

	item := s.cur.Item
	if key == "tab" {
		return s, s.send(core.Action{Kind: core.ActionNext}, false, "")
	}

	switch item.Kind {
	case content.KindCard:
		switch key {
		case "space", " ", "enter":
			s.revealed = !s.revealed
		case "k":
			return s, s.send(core.Action{Kind: core.ActionKnown, ItemID: item.ID}, false, "")
		case "u":
			return s, s.send(core.Action{Kind: core.ActionUnsure, ItemID: item.ID}, false, "")
		case "n":
			return s, s.send(core.Action{Kind: core.ActionNext}, false, "")
		}
		return s, nil

	case content.KindChoice:
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if s.choice.Submitted() {
			return s, tea.Batch(cmd, s.send(core.Action{}, true, s.choice.Chosen))
		}
		return s, cmd
	}

	if key == "enter" {
		if strings.TrimSpace(s.input.Value()) == "" {
			return s, nil
		}
		return s, s.send(core.Action{}, true, s.input.Value())
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// send runs a response through the controller off the UI goroutine.
// Graded answers go through Answer; everything else through Handle.
func (s *Screen) send(a core.Action, graded bool, answer string) tea.Cmd {
	s.waiting = true
	s.errMsg = ""
	batchID, itemID := s.cur.BatchID, s.cur.Item.ID
	return func() tea.Msg {
		ctx := context.Background()
		if graded {
			out, correct, err := s.ctl.Answer(ctx, s.userID, batchID, itemID, answer)
			return outcomeMsg{Outcome: out, Graded: true, Correct: correct, Err: err}
		}
		out, err := s.ctl.Handle(ctx, s.userID, batchID, a)
		return outcomeMsg{Outcome: out, Err: err}
	}
}

func (s *Screen) handleOutcome(msg outcomeMsg) (screen.Screen, tea.Cmd) {
	s.waiting = false
	if msg.Err != nil {
		switch {
		case errors.Is(msg.Err, session.ErrBusy):
			// Another response is being recorded; this one is dropped.
		case errors.Is(msg.Err, session.ErrStaleResponse):
			s.errMsg = "Already answered."
			s.choice.Reset()
		case errors.Is(msg.Err, core.ErrPersistence):
			s.errMsg = "Could not save your answer. Try again."
			s.choice.Reset()
		default:
			s.fail(msg.Err)
		}
		return s, nil
	}

	if msg.Graded {
		s.graded = true
		s.correct = msg.Correct
		out := msg.Outcome
		s.pending = &out
		if s.cur.Item.Kind == content.KindChoice {
			s.choice.Reveal(s.cur.Item.AnswerKey)
		} else {
			s.input.Submit(msg.Correct)
		}
		return s, nil
	}
	return s.advance(msg.Outcome)
}

func (s *Screen) proceed() (screen.Screen, tea.Cmd) {
	out := *s.pending
	s.pending = nil
	s.graded = false
	return s.advance(out)
}

func (s *Screen) advance(out core.Outcome) (screen.Screen, tea.Cmd) {
	if out.Kind == core.OutcomeComplete {
		return s, router.Replace(summary.New(s.title, out.Summary))
	}
	return s, s.show(out.Next)
}

// show resets per-item state for p.
func (s *Screen) show(p core.Presentation) tea.Cmd {
	s.cur = p
	s.revealed = false
	switch p.Item.Kind {
	case content.KindChoice:
		s.choice = components.NewChoice(content.ChoiceKeys, p.Item.Choices)
	case content.KindFreeText:
		s.input = components.NewTextInput("Type your answer...")
		return s.input.Init()
	}
	return nil
}

func (s *Screen) inputActive() bool {
	return s.started && !s.fatal && !s.graded && s.cur.Item.Kind == content.KindFreeText
}

func (s *Screen) fail(err error) {
	s.fatal = true
	switch {
	case errors.Is(err, core.ErrDataUnavailable):
		s.errMsg = "Not enough words for this drill yet. Import some with `winglish items import`."
	case errors.Is(err, core.ErrNoHistory):
		s.errMsg = "No earlier batch to review yet."
	case errors.Is(err, session.ErrNotFound):
		s.errMsg = "This drill has ended or was replaced by a newer one."
	default:
		s.errMsg = err.Error()
	}
}
