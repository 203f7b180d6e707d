package reading

import (
	"encoding/json"
	"errors"
	"testing"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/winglish-nk/Winglish-bot/internal/llm"
	core "github.com/winglish-nk/Winglish-bot/internal/reading"
	"github.com/winglish-nk/Winglish-bot/internal/router"
)

const exercise = `{
	"passage": "The Riverside Library will close early on Friday for staff training.",
	"questions": [
		{"text": "Why will the library close early?", "choices": ["A holiday", "Staff training", "Repairs", "A storm"], "answer": "B"},
		{"text": "When will it close early?", "choices": ["Monday", "Wednesday", "Friday", "Sunday"], "answer": "C"}
	]
}`

const feedback = `{
	"questions": [{"reason": "training is stated", "feedback": "well spotted"}, {"reason": "Friday is stated", "feedback": "check the day"}],
	"overall_feedback": "Good reading."
}`

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// run executes cmd, feeding the screen's own messages back into it, and
// returns the first message the screen does not handle itself.
func run(s *Screen, cmd tea.Cmd) tea.Msg {
	for cmd != nil {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out tea.Msg
			for _, c := range batch {
				if m := run(s, c); m != nil && out == nil {
					out = m
				}
			}
			return out
		}
		switch msg.(type) {
		case startedMsg, submittedMsg:
			_, cmd = s.Update(msg)
		case spinner.TickMsg:
			return nil
		default:
			return msg
		}
	}
	return nil
}

func newScreen(responses ...llm.MockResponse) (*Screen, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	cfg := core.DefaultLLMConfig()
	ctl := core.NewController(core.NewLLMGenerator(mock, cfg, nil), core.NewLLMGrader(mock, cfg))
	return New(ctl, "u1"), mock
}

func send(s *Screen, msg tea.Msg) tea.Msg {
	_, cmd := s.Update(msg)
	return run(s, cmd)
}

func TestReadingScreen_FullExercise(t *testing.T) {
	s, mock := newScreen(
		llm.MockResponse{Content: json.RawMessage(exercise)},
		llm.MockResponse{Content: json.RawMessage(feedback)},
	)
	run(s, s.Init())
	if !s.started || s.prompt.Number != 1 {
		t.Fatalf("expected question 1, started=%v err=%q", s.started, s.errMsg)
	}

	send(s, keyPress('b'))
	if s.prompt.Number != 2 {
		t.Fatalf("expected question 2, got %d", s.prompt.Number)
	}

	send(s, keyPress('a'))
	if s.result == nil {
		t.Fatalf("expected a graded result, err=%q", s.errMsg)
	}
	if s.result.Score != 1 {
		t.Errorf("Score = %d, want 1", s.result.Score)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 LLM calls, got %d", mock.CallCount())
	}

	msg := send(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := msg.(router.PopToRootMsg); !ok {
		t.Errorf("expected PopToRootMsg, got %T", msg)
	}
}

func TestReadingScreen_GradingFailureAllowsRetry(t *testing.T) {
	s, _ := newScreen(
		llm.MockResponse{Content: json.RawMessage(exercise)},
		llm.MockResponse{Err: errors.New("upstream down")},
		llm.MockResponse{Content: json.RawMessage(feedback)},
	)
	run(s, s.Init())
	send(s, keyPress('b'))

	send(s, keyPress('c'))
	if s.result != nil || s.errMsg == "" {
		t.Fatalf("expected a grading error, result=%v", s.result)
	}
	if s.choice.Submitted() {
		t.Fatal("choice should reopen after a grading failure")
	}

	send(s, keyPress('c'))
	if s.result == nil {
		t.Fatalf("expected the retry to be graded, err=%q", s.errMsg)
	}
	if s.result.Score != 2 {
		t.Errorf("Score = %d, want 2", s.result.Score)
	}
}

func TestReadingScreen_GenerationFailure(t *testing.T) {
	s, _ := newScreen(llm.MockResponse{Err: errors.New("no key")})
	run(s, s.Init())
	if !s.fatal {
		t.Fatal("expected a fatal error")
	}
	msg := send(s, tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := msg.(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", msg)
	}
}
