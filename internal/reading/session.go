package reading

import (
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// Session is one reading exercise in progress.
type Session struct {
	token     string
	userID    string
	exercise  Exercise
	createdAt time.Time
	idle      time.Duration

	mu           sync.Mutex
	phase        Phase
	answers      [Questions]string
	lastActivity time.Time
	result       *Result
}

func newSession(userID string, ex Exercise, now time.Time, idle time.Duration) *Session {
	return &Session{
		token:        shortuuid.New(),
		userID:       userID,
		exercise:     ex,
		createdAt:    now,
		idle:         idle,
		lastActivity: now,
	}
}

func (s *Session) Token() string        { return s.token }
func (s *Session) UserID() string       { return s.userID }
func (s *Session) Exercise() Exercise   { return s.exercise }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Result returns the graded result, or nil before grading completes.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Expired reports whether the session has been idle past its timeout.
// A session being graded never expires.
func (s *Session) Expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase != Grading && now.Sub(s.lastActivity) >= s.idle
}

func (s *Session) prompt(n int) Prompt {
	q := s.exercise.Questions[n-1]
	return Prompt{
		Token:   s.token,
		Number:  n,
		Passage: s.exercise.Passage,
		Text:    q.Text,
		Choices: append([]string(nil), q.Choices...),
		Keys:    q.Keys(),
	}
}

// answer validates and records the answer to question n, which must be
// the question being asked. It moves the phase forward: question 2 moves
// the session to Grading.
func (s *Session) answer(n int, key string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case Graded:
		return ErrAlreadyGraded
	case Grading:
		return errGrading
	}
	want := AwaitingPhase1
	if n == 2 {
		want = AwaitingPhase2
	}
	if s.phase != want {
		return ErrWrongPhase
	}
	if !s.exercise.Questions[n-1].HasKey(key) {
		return ErrInvalidChoice
	}

	s.answers[n-1] = key
	s.lastActivity = now
	if n == 1 {
		s.phase = AwaitingPhase2
	} else {
		s.phase = Grading
	}
	return nil
}

func (s *Session) gradeRequest() GradeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return GradeRequest{
		UserID:    s.userID,
		Passage:   s.exercise.Passage,
		Questions: s.exercise.Questions,
		Answers:   s.answers,
	}
}

// finish records the grading outcome. A nil feedback means grading failed
// and the session goes back to waiting for question 2.
func (s *Session) finish(fb *Feedback, now time.Time) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActivity = now
	if fb == nil {
		s.phase = AwaitingPhase2
		return nil
	}

	r := &Result{Token: s.token, Answers: s.answers, Feedback: fb}
	for i, q := range s.exercise.Questions {
		r.Expected[i] = q.Answer
		r.Correct[i] = s.answers[i] == q.Answer
		if r.Correct[i] {
			r.Score++
		}
	}
	s.phase = Graded
	s.result = r
	return r
}
