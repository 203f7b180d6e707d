package reading

import (
	"errors"

	"github.com/winglish-nk/Winglish-bot/internal/session"
)

var (
	// ErrAlreadyGraded means the session was graded; answers are final.
	ErrAlreadyGraded = errors.New("reading session already graded")

	// ErrWrongPhase means the answer is for a question not being asked.
	ErrWrongPhase = errors.New("answer for the wrong question")

	// ErrInvalidChoice means the answer is not one of the question's keys.
	ErrInvalidChoice = errors.New("not a valid choice")

	// ErrInvalidExercise means a generated exercise cannot be used.
	ErrInvalidExercise = errors.New("invalid reading exercise")
)

// errGrading is returned while the grader is running.
var errGrading = session.ErrBusy
