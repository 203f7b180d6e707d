package home

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/winglish-nk/Winglish-bot/internal/content"
	"github.com/winglish-nk/Winglish-bot/internal/drill"
	"github.com/winglish-nk/Winglish-bot/internal/reading"
	"github.com/winglish-nk/Winglish-bot/internal/router"
	"github.com/winglish-nk/Winglish-bot/internal/screen"
	drillscreen "github.com/winglish-nk/Winglish-bot/internal/screens/drill"
	readingscreen "github.com/winglish-nk/Winglish-bot/internal/screens/reading"
	"github.com/winglish-nk/Winglish-bot/internal/screens/weak"
	"github.com/winglish-nk/Winglish-bot/internal/session"
	"github.com/winglish-nk/Winglish-bot/internal/ui/components"
)

// Options wires the home screen to the engine.
type Options struct {
	Drill  *drill.Controller
	UserID string

	// Reading is nil when no LLM provider is configured.
	Reading *reading.Controller

	// NotebookID restricts new-word drills to one notebook.
	NotebookID string
}

// StatsMsg carries freshly loaded progress counts. The app also reads it
// to update the header.
type StatsMsg struct {
	Stats drill.Stats
	Err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	opts   Options
	menu   components.Menu
	stats  drill.Stats
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates the home screen.
func New(opts Options) *HomeScreen {
	ctl, user := opts.Drill, opts.UserID

	startDrill := func(title string, start drillscreen.StartFunc) func() tea.Cmd {
		return func() tea.Cmd {
			return router.Push(drillscreen.New(ctl, user, title, start))
		}
	}
	random := func(module string, kind content.Kind) drillscreen.StartFunc {
		return func(ctx context.Context) (*session.Session, error) {
			return ctl.StartRandom(ctx, user, module, 0, content.Filter{Kind: kind, NotebookID: opts.NotebookID})
		}
	}

	readingItem := components.MenuItem{
		Label:    "Reading",
		Hint:     "passage with two questions",
		Disabled: opts.Reading == nil,
		Action: func() tea.Cmd {
			return router.Push(readingscreen.New(opts.Reading, user))
		},
	}

	items := []components.MenuItem{
		{Label: "10 words", Hint: "random vocabulary cards",
			Action: startDrill("10 words", random(drill.ModuleVocab, content.KindCard))},
		{Label: "Review older batch", Hint: "the batch two drills before your latest",
			Action: startDrill("Review", func(ctx context.Context) (*session.Session, error) {
				return ctl.BatchBack(ctx, user, drill.ModuleVocab, 2)
			})},
		{Label: "Weak words", Hint: "due or not yet stable",
			Action: func() tea.Cmd { return router.Push(weak.New(ctl, user)) }},
		{Label: "Quiz", Hint: "multiple choice",
			Action: startDrill("Quiz", random(drill.ModuleQuiz, content.KindChoice))},
		{Label: "Sentence structure", Hint: "free-text answers",
			Action: startDrill("Sentence structure", random(drill.ModuleQuiz, content.KindFreeText))},
		readingItem,
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		opts:  opts,
		menu:  components.NewMenu(items),
		stats: drill.Stats{Items: -1},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume reloads the counts after a drill.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	ctl, user := h.opts.Drill, h.opts.UserID
	return func() tea.Msg {
		st, err := ctl.Stats(context.Background(), user)
		return StatsMsg{Stats: st, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(StatsMsg); ok {
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.stats = msg.Stats
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}
