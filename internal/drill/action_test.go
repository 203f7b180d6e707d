package drill

import (
	"errors"
	"testing"

	"github.com/winglish-nk/Winglish-bot/internal/spacedrep"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		id   string
		want Action
	}{
		{"vocab:known:42", Action{Kind: ActionKnown, ItemID: "42"}},
		{"vocab:unsure:w:odd", Action{Kind: ActionUnsure, ItemID: "w:odd"}},
		{"vocab:next", Action{Kind: ActionNext}},
		{"vocab:ten", Action{Kind: ActionTen}},
		{"vocab:prevprev", Action{Kind: ActionPrevPrev}},
		{"vocab:weak", Action{Kind: ActionWeak}},
		{"reading:1:A", Action{Kind: ActionReading, Question: 1, Key: "A"}},
		{"reading:2:D", Action{Kind: ActionReading, Question: 2, Key: "D"}},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.id)
		if err != nil {
			t.Errorf("ParseAction(%q): %v", tt.id, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAction(%q) = %+v, want %+v", tt.id, got, tt.want)
		}
		if got.CustomID() != tt.id {
			t.Errorf("CustomID() = %q, want %q", got.CustomID(), tt.id)
		}
	}
}

func TestParseAction_Malformed(t *testing.T) {
	for _, id := range []string{
		"", "vocab", "vocab:known", "vocab:known:", "vocab:known:  ",
		"vocab:next:extra", "vocab:dance", "reading:3:A", "reading:x:A",
		"reading:1", "reading:1:", "grammar:ten",
	} {
		if _, err := ParseAction(id); !errors.Is(err, ErrMalformedAction) {
			t.Errorf("ParseAction(%q) error = %v, want ErrMalformedAction", id, err)
		}
	}
}

func TestActionQuality(t *testing.T) {
	if q, ok := (Action{Kind: ActionKnown}).Quality(); !ok || q != spacedrep.QualityKnown {
		t.Errorf("known quality = %d, %v", q, ok)
	}
	if q, ok := (Action{Kind: ActionUnsure}).Quality(); !ok || q != spacedrep.QualityUnsure {
		t.Errorf("unsure quality = %d, %v", q, ok)
	}
	if _, ok := (Action{Kind: ActionNext}).Quality(); ok {
		t.Error("next should carry no quality")
	}
}
