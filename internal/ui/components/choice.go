package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/winglish-nk/Winglish-bot/internal/ui/theme"
)

// Choice is a keyed multiple-choice selector. Options are chosen with the
// arrows and Enter, or directly by typing their key.
type Choice struct {
	Keys     []string
	Options  []string
	Selected int
	Chosen   string

	// Answer is the correct key, shown once Reveal is called.
	answer string
}

// NewChoice pairs keys with options. Extra keys or options are ignored.
func NewChoice(keys, options []string) Choice {
	n := len(keys)
	if len(options) < n {
		n = len(options)
	}
	return Choice{Keys: keys[:n], Options: options[:n]}
}

// Submitted reports whether a key has been chosen.
func (c Choice) Submitted() bool {
	return c.Chosen != ""
}

// Reveal marks answer as the correct key.
func (c *Choice) Reveal(answer string) {
	c.answer = answer
}

// Reset clears the choice so it can be made again.
func (c *Choice) Reset() {
	c.Chosen = ""
	c.answer = ""
}

// Update handles navigation and selection.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.Submitted() {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		if len(c.Keys) > 0 {
			c.Chosen = c.Keys[c.Selected]
		}
	default:
		for i, k := range c.Keys {
			if strings.EqualFold(k, key) {
				c.Selected = i
				c.Chosen = k
			}
		}
	}
	return c, nil
}

// View renders the options.
func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		key := c.Keys[i]
		prefix := "  "
		if i == c.Selected && !c.Submitted() {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s) %s", prefix, key, opt)

		switch {
		case c.answer != "" && key == c.answer:
			b.WriteString(theme.Correct.Render(line))
		case c.answer != "" && key == c.Chosen:
			b.WriteString(theme.Incorrect.Render(line))
		case c.Submitted() && key == c.Chosen:
			b.WriteString(theme.Selected.Render(line))
		case c.Submitted() || c.answer != "":
			b.WriteString(theme.Dimmed.Render(line))
		case i == c.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
