package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/winglish-nk/Winglish-bot/internal/content"
	"github.com/winglish-nk/Winglish-bot/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for free-text answers.
type TextInput struct {
	Model     textinput.Model
	submitted bool
	correct   bool
}

// NewTextInput creates a focused input capped at the answer length limit.
func NewTextInput(placeholder string) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = content.MaxAnswerLength
	ti.Focus()
	return TextInput{Model: ti}
}

// Init focuses the input.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards input while the answer is still open.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.submitted {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input with a mark once graded.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.correct {
			view += " " + theme.Correct.Render("✓")
		} else {
			view += " " + theme.Incorrect.Render("✗")
		}
	}
	return view
}

// Value returns the current input.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Submit freezes the input and records whether it was correct.
func (t *TextInput) Submit(correct bool) {
	t.submitted = true
	t.correct = correct
	t.Model.Blur()
}
