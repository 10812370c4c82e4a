package entities

import (
	"math"
	"time"
)

// SessionState is the lifecycle state of a quiz session.
type SessionState int

const (
	// StateIdle means no quiz is in progress.
	StateIdle SessionState = iota
	// StateAwaitingAnswer means a target region is set and the player
	// has not resolved it yet.
	StateAwaitingAnswer
	// StateResolving means the question is resolved and an advance to
	// the next question is pending.
	StateResolving
	// StateComplete means every region has been answered and the results
	// are on screen.
	StateComplete
)

// String returns a human-readable state name for logging.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateResolving:
		return "resolving"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// QuizSession tracks the mutable state of one quiz run: the current target,
// the per-question guess counter, the session score counters and the sticky
// answered flags. All mutation goes through the quiz controller.
type QuizSession struct {
	State          SessionState
	CurrentTarget  string // region ID the player must find; empty between questions
	GuessCount     int    // wrong guesses on the current question
	TotalQuestions int
	CorrectAnswers int
	StartedAt      time.Time

	answered map[string]bool
}

// NewQuizSession creates a fresh session in the idle state.
func NewQuizSession() *QuizSession {
	return &QuizSession{
		State:    StateIdle,
		answered: make(map[string]bool),
	}
}

// Begin resets all counters and answered flags and moves the session into
// the awaiting-answer state.
func (s *QuizSession) Begin() {
	s.State = StateAwaitingAnswer
	s.CurrentTarget = ""
	s.GuessCount = 0
	s.TotalQuestions = 0
	s.CorrectAnswers = 0
	s.StartedAt = time.Now()
	s.answered = make(map[string]bool)
}

// End returns the session to the idle state and clears all per-run state.
func (s *QuizSession) End() {
	s.State = StateIdle
	s.CurrentTarget = ""
	s.GuessCount = 0
	s.TotalQuestions = 0
	s.CorrectAnswers = 0
	s.answered = make(map[string]bool)
}

// Active reports whether a quiz is in progress.
func (s *QuizSession) Active() bool {
	return s.State == StateAwaitingAnswer || s.State == StateResolving
}

// IsAnswered reports whether the region was already resolved this session.
func (s *QuizSession) IsAnswered(regionID string) bool {
	return s.answered[regionID]
}

// MarkAnswered flags a region as resolved. The flag is sticky for the
// lifetime of the session.
func (s *QuizSession) MarkAnswered(regionID string) {
	s.answered[regionID] = true
}

// AnsweredCount returns the number of regions resolved so far.
func (s *QuizSession) AnsweredCount() int {
	return len(s.answered)
}

// Score computes the final percentage score over the full region set.
func (s *QuizSession) Score(totalRegions int) int {
	if totalRegions == 0 {
		return 0
	}
	return int(math.Round(float64(s.CorrectAnswers) / float64(totalRegions) * 100))
}
