package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/winglish-nk/Winglish-bot/internal/router"
	"github.com/winglish-nk/Winglish-bot/internal/session"
)

func testSummary() session.Summary {
	return session.Summary{
		BatchID:  "b-1",
		Module:   "vocab",
		Total:    10,
		Answered: 10,
		Passed:   6,
		Failed:   2,
		Skipped:  2,
		Elapsed:  3*time.Minute + 5*time.Second,
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New("10 new words", testSummary())
	if s.Title() != "Drill Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Drill Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New("10 new words", testSummary()).View(80, 24)
	for _, want := range []string{"10 new words complete!", "3:05", "6 known", "2 to review", "75%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAccuracy_IgnoresSkips(t *testing.T) {
	if got := Accuracy(session.Summary{Skipped: 5}); got != 0 {
		t.Errorf("Accuracy with only skips = %v, want 0", got)
	}
	if got := Accuracy(testSummary()); got != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", got)
	}
}

func TestSummaryScreen_EnterGoesHome(t *testing.T) {
	s := New("Weak words", testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Errorf("expected PopToRootMsg, got %T", cmd())
	}
}
