package content

import (
	"fmt"
	"strings"
)

// Kind discriminates the Item variants.
type Kind string

const (
	// KindCard is a self-graded vocabulary card.
	KindCard Kind = "card"

	// KindChoice is a multiple-choice item with a single correct key.
	KindChoice Kind = "choice"

	// KindFreeText is answered in free text and compared to a reference.
	KindFreeText Kind = "free_text"
)

// ChoiceKeys are the keys used for multiple-choice options, in order.
var ChoiceKeys = []string{"A", "B", "C", "D"}

// Item is a unit of drill content. Which fields are meaningful depends on Kind.
type Item struct {
	ID   string `json:"id" yaml:"id"`
	Kind Kind   `json:"kind" yaml:"kind"`

	// Prompt is the word for cards, the question for choice and free-text items.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Card fields.
	Meaning      string   `json:"meaning,omitempty" yaml:"meaning,omitempty"`
	PartOfSpeech string   `json:"pos,omitempty" yaml:"pos,omitempty"`
	ExampleEN    string   `json:"example_en,omitempty" yaml:"example_en,omitempty"`
	ExampleJA    string   `json:"example_ja,omitempty" yaml:"example_ja,omitempty"`
	Synonyms     []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	Derived      []string `json:"derived,omitempty" yaml:"derived,omitempty"`

	// Choice fields. Choices holds one option per ChoiceKeys entry.
	Choices   []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	AnswerKey string   `json:"answer_key,omitempty" yaml:"answer_key,omitempty"`

	// Free-text field.
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// ValidationError describes why an item is unusable.
type ValidationError struct {
	ItemID  string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %q: %s", e.ItemID, e.Message)
}

// Validate checks that the fields required by the item's kind are present.
func (it *Item) Validate() error {
	fail := func(msg string) error {
		return &ValidationError{ItemID: it.ID, Message: msg}
	}
	if strings.TrimSpace(it.ID) == "" {
		return fail("id is empty")
	}
	if strings.TrimSpace(it.Prompt) == "" {
		return fail("prompt is empty")
	}

	switch it.Kind {
	case KindCard:
		if strings.TrimSpace(it.Meaning) == "" {
			return fail("card has no meaning")
		}
	case KindChoice:
		if len(it.Choices) < 2 || len(it.Choices) > len(ChoiceKeys) {
			return fail(fmt.Sprintf("choice item needs 2-%d choices, got %d", len(ChoiceKeys), len(it.Choices)))
		}
		if it.ChoiceIndex(it.AnswerKey) < 0 {
			return fail(fmt.Sprintf("answer key %q does not name a choice", it.AnswerKey))
		}
	case KindFreeText:
		if strings.TrimSpace(it.Reference) == "" {
			return fail("free-text item has no reference answer")
		}
	default:
		return fail(fmt.Sprintf("unknown kind %q", it.Kind))
	}
	return nil
}

// ChoiceIndex returns the index of key among the item's choices, or -1.
func (it *Item) ChoiceIndex(key string) int {
	key = strings.ToUpper(strings.TrimSpace(key))
	for i, k := range ChoiceKeys {
		if i >= len(it.Choices) {
			break
		}
		if k == key {
			return i
		}
	}
	return -1
}

// Correct reports whether answer matches the item's reference. Cards are
// self-graded and never match.
func (it *Item) Correct(answer string) bool {
	switch it.Kind {
	case KindChoice:
		return it.ChoiceIndex(answer) >= 0 && strings.EqualFold(strings.TrimSpace(answer), it.AnswerKey)
	case KindFreeText:
		return normalize(answer) == normalize(it.Reference)
	default:
		return false
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
