// Package reading is the terminal screen for two-question reading drills.
package reading

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	core "github.com/winglish-nk/Winglish-bot/internal/reading"
	"github.com/winglish-nk/Winglish-bot/internal/router"
	"github.com/winglish-nk/Winglish-bot/internal/screen"
	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/ui/components"
	"github.com/winglish-nk/Winglish-bot/internal/ui/layout"
)

type startedMsg struct {
	Prompt core.Prompt
	Err    error
}

type submittedMsg struct {
	Next   *core.Prompt
	Result *core.Result
	Err    error
}

// Screen walks the learner through one exercise: generate, question 1,
// question 2, grading, feedback.
type Screen struct {
	ctl    *core.Controller
	userID string

	spinner spinner.Model
	busy    bool // generating or grading
	prompt  core.Prompt
	started bool
	choice  components.Choice
	result  *core.Result

	errMsg string
	fatal  bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BackInterceptor = (*Screen)(nil)

// New creates a reading screen for userID.
func New(ctl *core.Controller, userID string) *Screen {
	return &Screen{
		ctl:     ctl,
		userID:  userID,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		busy:    true,
	}
}

func (s *Screen) Init() tea.Cmd {
	start := func() tea.Msg {
		_, p, err := s.ctl.Start(context.Background(), s.userID)
		return startedMsg{Prompt: p, Err: err}
	}
	return tea.Batch(start, s.spinner.Tick)
}

func (s *Screen) Title() string {
	return "Reading"
}

func (s *Screen) InterceptBack() bool {
	return true
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.fatal:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.result != nil:
		return []layout.KeyHint{
			{Key: "R", Description: "Another passage"},
			{Key: "Enter", Description: "Home"},
		}
	case s.busy:
		return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case startedMsg:
		s.busy = false
		if msg.Err != nil {
			s.fatal = true
			s.errMsg = "Could not create a passage: " + msg.Err.Error()
			return s, nil
		}
		s.started = true
		s.show(msg.Prompt)
		return s, nil

	case submittedMsg:
		return s.handleSubmitted(msg)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if s.result != nil {
		switch key {
		case "r":
			return s, router.Replace(New(s.ctl, s.userID))
		case "enter", "esc", "q":
			return s, router.Home
		}
		return s, nil
	}
	if key == "esc" {
		if s.started {
			s.ctl.Cancel(s.prompt.Token)
		}
		return s, router.Pop
	}
	if s.fatal || s.busy || !s.started {
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if !s.choice.Submitted() {
		return s, cmd
	}

	s.errMsg = ""
	token, n, answer := s.prompt.Token, s.prompt.Number, s.choice.Chosen
	submit := func() tea.Msg {
		next, res, err := s.ctl.Submit(context.Background(), token, n, answer)
		return submittedMsg{Next: next, Result: res, Err: err}
	}
	if n == core.Questions {
		s.busy = true
		return s, tea.Batch(cmd, submit, s.spinner.Tick)
	}
	return s, tea.Batch(cmd, submit)
}

func (s *Screen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	switch {
	case msg.Err == nil && msg.Result != nil:
		s.result = msg.Result
	case msg.Err == nil && msg.Next != nil:
		s.show(*msg.Next)
	case errors.Is(msg.Err, core.ErrInvalidChoice):
		s.errMsg = "Pick one of the listed choices."
		s.choice.Reset()
	case errors.Is(msg.Err, session.ErrNotFound):
		s.fatal = true
		s.errMsg = "This exercise timed out. Start a new one from the menu."
	case errors.Is(msg.Err, core.ErrWrongPhase), errors.Is(msg.Err, core.ErrAlreadyGraded), errors.Is(msg.Err, session.ErrBusy):
		// A duplicate submit; the first one will report back.
	default:
		// Grading failed; the answer to question 2 can be sent again.
		s.errMsg = "Grading failed, choose again to retry: " + msg.Err.Error()
		s.choice.Reset()
	}
	return s, nil
}

func (s *Screen) show(p core.Prompt) {
	s.prompt = p
	s.choice = components.NewChoice(p.Keys, p.Choices)
}
