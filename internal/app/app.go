// Package app is the root Bubble Tea model of the terminal drill UI.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/winglish-nk/Winglish-bot/internal/logger"
	"github.com/winglish-nk/Winglish-bot/internal/router"
	"github.com/winglish-nk/Winglish-bot/internal/screen"
	"github.com/winglish-nk/Winglish-bot/internal/screens/home"
	"github.com/winglish-nk/Winglish-bot/internal/ui/layout"
)

// Options configures the app.
type Options struct {
	home.Options
	Log *logger.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status layout.Status
	log    *logger.Logger
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return AppModel{
		router: router.New(home.New(opts.Options)),
		status: layout.Status{UserID: opts.UserID, Due: -1},
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case home.StatsMsg:
		if msg.Err != nil {
			m.log.Warn("loading stats", "user_id", m.status.UserID, "error", msg.Err)
		} else {
			m.status.Due = msg.Stats.Due
		}

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bi, ok := m.router.Active().(screen.BackInterceptor); ok && bi.InterceptBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.status, m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); hints != nil {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the terminal UI and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal ui: %w", err)
	}
	return nil
}
