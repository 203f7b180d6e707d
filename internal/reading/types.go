// Package reading runs two-question reading comprehension exercises: the
// learner answers question one, then question two, and the pair is graded
// together.
package reading

import (
	"fmt"
	"strings"

	"github.com/winglish-nk/Winglish-bot/internal/content"
)

// Questions per exercise.
const Questions = 2

// Question is one multiple-choice question about the passage.
type Question struct {
	Text string `json:"text"`
	// Choices holds one option per content.ChoiceKeys entry.
	Choices []string `json:"choices"`
	Answer  string   `json:"answer"`
}

// Keys returns the choice keys valid for the question.
func (q Question) Keys() []string {
	n := len(q.Choices)
	if n > len(content.ChoiceKeys) {
		n = len(content.ChoiceKeys)
	}
	return content.ChoiceKeys[:n]
}

// HasKey reports whether key names one of the question's choices.
func (q Question) HasKey(key string) bool {
	for _, k := range q.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// ChoicesLine renders the choices as "A. x B. y ..." for prompts.
func (q Question) ChoicesLine() string {
	parts := make([]string, 0, len(q.Choices))
	for i, k := range q.Keys() {
		parts = append(parts, k+". "+q.Choices[i])
	}
	return strings.Join(parts, " ")
}

// Exercise is a passage with its two questions.
type Exercise struct {
	Passage   string              `json:"passage"`
	Questions [Questions]Question `json:"questions"`
}

// Validate checks the exercise is answerable.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Passage) == "" {
		return fmt.Errorf("%w: empty passage", ErrInvalidExercise)
	}
	for i, q := range e.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidExercise, i+1)
		}
		if len(q.Choices) < 2 || len(q.Choices) > len(content.ChoiceKeys) {
			return fmt.Errorf("%w: question %d has %d choices", ErrInvalidExercise, i+1, len(q.Choices))
		}
		for j, c := range q.Choices {
			if strings.TrimSpace(c) == "" {
				return fmt.Errorf("%w: question %d choice %s is empty", ErrInvalidExercise, i+1, content.ChoiceKeys[j])
			}
		}
		if !q.HasKey(q.Answer) {
			return fmt.Errorf("%w: question %d answer %q is not a choice", ErrInvalidExercise, i+1, q.Answer)
		}
	}
	return nil
}

// Phase is the state of a reading session.
type Phase int

const (
	AwaitingPhase1 Phase = iota
	AwaitingPhase2
	Grading
	Graded
)

func (p Phase) String() string {
	switch p {
	case AwaitingPhase1:
		return "awaiting-phase-1"
	case AwaitingPhase2:
		return "awaiting-phase-2"
	case Grading:
		return "grading"
	case Graded:
		return "graded"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Prompt is a question to show, without its answer.
type Prompt struct {
	Token   string
	Number  int // 1 or 2
	Passage string
	Text    string
	Choices []string
	Keys    []string
}

// GradeRequest carries everything the grader sees.
type GradeRequest struct {
	UserID    string
	Passage   string
	Questions [Questions]Question
	Answers   [Questions]string
}

// QuestionFeedback explains one question.
type QuestionFeedback struct {
	Reason   string `json:"reason"`
	Feedback string `json:"feedback"`
}

// Feedback is the grader's explanation of both answers.
type Feedback struct {
	Questions []QuestionFeedback `json:"questions"`
	Overall   string             `json:"overall_feedback"`
}

// Result is a graded exercise.
type Result struct {
	Token    string            `json:"token"`
	Answers  [Questions]string `json:"answers"`
	Expected [Questions]string `json:"expected"`
	Correct  [Questions]bool   `json:"correct"`
	Score    int               `json:"score"`
	Feedback *Feedback         `json:"feedback"`
}
