// Package session holds the state of one quiz attempt and every operation
// allowed to change it.
package session

import (
	"errors"
	"sort"
	"strings"

	"timed-quiz/internal/quiz"
)

// DefaultDurationSeconds is the quiz time limit (30 minutes).
const DefaultDurationSeconds = 30 * 60

const (
	InvalidEmailMessage = "Please enter a valid email address"
	FetchFailedMessage  = "Failed to fetch questions. Please try again."
)

var (
	ErrNotInStart       = errors.New("session already started")
	ErrNotInQuiz        = errors.New("session is not in quiz phase")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrAlreadyPopulated = errors.New("questions already populated")
)

type Phase int

const (
	PhaseStart Phase = iota
	PhaseQuiz
	PhaseReport
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseQuiz:
		return "quiz"
	case PhaseReport:
		return "report"
	default:
		return "unknown"
	}
}

// ValidationError is returned by StartSession for a malformed email.
type ValidationError struct {
	Email   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Session is not safe for concurrent use; Controller serializes access.
type Session struct {
	email        string
	phase        Phase
	questions    []quiz.Question
	populated    bool
	answers      map[int]string
	visited      map[int]struct{}
	current      int
	remaining    int
	loading      bool
	errorMessage string
	timer        Timer
}

func New(durationSeconds int) *Session {
	if durationSeconds <= 0 {
		durationSeconds = DefaultDurationSeconds
	}
	return &Session{
		phase:     PhaseStart,
		answers:   make(map[int]string),
		visited:   map[int]struct{}{0: {}},
		remaining: durationSeconds,
	}
}

// StartSession validates the email and moves the session into the quiz
// phase. The caller is expected to start the question fetch on success.
func (s *Session) StartSession(email string) error {
	if s.phase != PhaseStart {
		return ErrNotInStart
	}
	s.email = email
	if !validEmail(email) {
		s.errorMessage = InvalidEmailMessage
		return &ValidationError{Email: email, Message: InvalidEmailMessage}
	}

	s.errorMessage = ""
	s.phase = PhaseQuiz
	s.loading = true
	s.timer.start()
	return nil
}

// ApplyQuestions installs the fetched batch. It succeeds at most once. A
// batch that lands after the quiz timed out still fills in the report, with
// every question unanswered.
func (s *Session) ApplyQuestions(questions []quiz.Question) error {
	if s.populated {
		return ErrAlreadyPopulated
	}
	if s.phase == PhaseStart {
		return ErrNotInQuiz
	}

	s.questions = append([]quiz.Question(nil), questions...)
	s.populated = true
	s.loading = false
	return nil
}

// ApplyFetchError leaves the quiz phase in place with no questions. Once the
// session has reached the report the failure only ends loading.
func (s *Session) ApplyFetchError() {
	if s.phase == PhaseStart || s.populated {
		return
	}
	s.populated = true
	s.loading = false
	if s.phase == PhaseQuiz {
		s.errorMessage = FetchFailedMessage
	}
}

// RecordAnswer overwrites any previous answer for index. The choice is not
// checked against the question's listed choices.
func (s *Session) RecordAnswer(index int, choice string) error {
	if s.phase != PhaseQuiz {
		return ErrNotInQuiz
	}
	if !s.inRange(index) {
		return ErrIndexOutOfRange
	}
	s.answers[index] = choice
	return nil
}

// ForceTimeout zeroes the clock and moves a started quiz to the report phase.
// Repeated calls have no further effect; before StartSession it does nothing.
func (s *Session) ForceTimeout() {
	if s.phase == PhaseStart {
		return
	}
	s.remaining = 0
	s.timer.stop()
	s.phase = PhaseReport
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Email() string {
	return s.email
}

func (s *Session) Questions() []quiz.Question {
	return append([]quiz.Question(nil), s.questions...)
}

func (s *Session) QuestionCount() int {
	return len(s.questions)
}

func (s *Session) Answer(index int) (string, bool) {
	answer, ok := s.answers[index]
	return answer, ok
}

func (s *Session) Answers() map[int]string {
	answers := make(map[int]string, len(s.answers))
	for idx, answer := range s.answers {
		answers[idx] = answer
	}
	return answers
}

func (s *Session) Visited() []int {
	visited := make([]int, 0, len(s.visited))
	for idx := range s.visited {
		visited = append(visited, idx)
	}
	sort.Ints(visited)
	return visited
}

func (s *Session) CurrentIndex() int {
	return s.current
}

func (s *Session) RemainingSeconds() int {
	return s.remaining
}

func (s *Session) Loading() bool {
	return s.loading
}

func (s *Session) ErrorMessage() string {
	return s.errorMessage
}

func (s *Session) TimerState() TimerState {
	return s.timer.state
}

func (s *Session) inRange(index int) bool {
	return index >= 0 && index < len(s.questions)
}

func validEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}
