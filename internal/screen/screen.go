package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/winglish-nk/Winglish-bot/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that reload their data when they
// become active again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// BackInterceptor is implemented by screens that handle Esc themselves,
// for example to cancel a drill before leaving.
type BackInterceptor interface {
	InterceptBack() bool
}
