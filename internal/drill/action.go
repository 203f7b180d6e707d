package drill

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/winglish-nk/Winglish-bot/internal/spacedrep"
)

// ActionKind names what an interaction asks the drill engine to do.
type ActionKind string

const (
	ActionKnown    ActionKind = "known"
	ActionUnsure   ActionKind = "unsure"
	ActionNext     ActionKind = "next"
	ActionTen      ActionKind = "ten"
	ActionPrevPrev ActionKind = "prevprev"
	ActionWeak     ActionKind = "weak"
	ActionReading  ActionKind = "reading"
)

// Action is a decoded interaction identifier such as "vocab:known:w42" or
// "reading:1:B".
type Action struct {
	Kind ActionKind

	// ItemID is set for ActionKnown and ActionUnsure.
	ItemID string

	// Question (1 or 2) and Key are set for ActionReading.
	Question int
	Key      string
}

// Quality is the recall signal carried by a grading action.
func (a Action) Quality() (spacedrep.Quality, bool) {
	switch a.Kind {
	case ActionKnown:
		return spacedrep.QualityKnown, true
	case ActionUnsure:
		return spacedrep.QualityUnsure, true
	}
	return 0, false
}

// CustomID encodes the action back into its identifier.
func (a Action) CustomID() string {
	switch a.Kind {
	case ActionKnown, ActionUnsure:
		return "vocab:" + string(a.Kind) + ":" + a.ItemID
	case ActionReading:
		return fmt.Sprintf("reading:%d:%s", a.Question, a.Key)
	default:
		return "vocab:" + string(a.Kind)
	}
}

// ParseAction decodes an interaction identifier.
func ParseAction(id string) (Action, error) {
	malformed := func() (Action, error) {
		return Action{}, fmt.Errorf("%w: %q", ErrMalformedAction, id)
	}

	prefix, rest, ok := strings.Cut(id, ":")
	if !ok {
		return malformed()
	}

	switch prefix {
	case "vocab":
		kind, itemID, hasItem := strings.Cut(rest, ":")
		switch k := ActionKind(kind); k {
		case ActionKnown, ActionUnsure:
			if !hasItem || strings.TrimSpace(itemID) == "" {
				return malformed()
			}
			return Action{Kind: k, ItemID: itemID}, nil
		case ActionNext, ActionTen, ActionPrevPrev, ActionWeak:
			if hasItem {
				return malformed()
			}
			return Action{Kind: k}, nil
		}
	case "reading":
		n, key, ok := strings.Cut(rest, ":")
		if !ok || key == "" || strings.Contains(key, ":") {
			return malformed()
		}
		q, err := strconv.Atoi(n)
		if err != nil || q < 1 || q > 2 {
			return malformed()
		}
		return Action{Kind: ActionReading, Question: q, Key: key}, nil
	}
	return malformed()
}
