package session

import "timed-quiz/internal/quiz"

// Snapshot is a detached copy of a Session for rendering and scoring.
type Snapshot struct {
	SessionID        string
	Phase            Phase
	Email            string
	Questions        []quiz.Question
	Answers          map[int]string
	Visited          []int
	CurrentIndex     int
	RemainingSeconds int
	Loading          bool
	ErrorMessage     string
	Timer            TimerState
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:            s.phase,
		Email:            s.email,
		Questions:        s.Questions(),
		Answers:          s.Answers(),
		Visited:          s.Visited(),
		CurrentIndex:     s.current,
		RemainingSeconds: s.remaining,
		Loading:          s.loading,
		ErrorMessage:     s.errorMessage,
		Timer:            s.timer.state,
	}
}

func (s Snapshot) CurrentQuestion() (quiz.Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return quiz.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

func (s Snapshot) IsLastQuestion() bool {
	return len(s.Questions) > 0 && s.CurrentIndex == len(s.Questions)-1
}

func (s Snapshot) IsVisited(index int) bool {
	for _, visited := range s.Visited {
		if visited == index {
			return true
		}
	}
	return false
}

func (s Snapshot) IsAnswered(index int) bool {
	_, ok := s.Answers[index]
	return ok
}

func (s Snapshot) RemainingDisplay() string {
	return FormatRemaining(s.RemainingSeconds)
}
