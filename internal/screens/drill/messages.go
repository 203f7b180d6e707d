package drill

import (
	core "github.com/winglish-nk/Winglish-bot/internal/drill"
)

// startedMsg reports that the batch was created (or could not be).
type startedMsg struct {
	Next core.Presentation
	Err  error
}

// outcomeMsg reports the controller's handling of one response.
type outcomeMsg struct {
	Outcome core.Outcome
	// Graded is set for choice and free-text answers; Correct is only
	// meaningful then.
	Graded  bool
	Correct bool
	Err     error
}
