package session

// GoTo makes index the current question and marks it visited. Any in-range
// index is allowed, answered or not.
func (s *Session) GoTo(index int) error {
	if s.phase != PhaseQuiz {
		return ErrNotInQuiz
	}
	if !s.inRange(index) {
		return ErrIndexOutOfRange
	}
	s.current = index
	s.visited[index] = struct{}{}
	return nil
}

func (s *Session) GoPrevious() error {
	if s.phase != PhaseQuiz {
		return ErrNotInQuiz
	}
	if len(s.questions) == 0 {
		return nil
	}
	return s.GoTo(max(0, s.current-1))
}

// GoNextOrFinish advances by one, or ends the quiz at the last question.
// With no questions loaded it does nothing.
func (s *Session) GoNextOrFinish() error {
	return s.FinishOrAdvance()
}

func (s *Session) FinishOrAdvance() error {
	if s.phase != PhaseQuiz {
		return ErrNotInQuiz
	}
	if len(s.questions) == 0 {
		return nil
	}
	if s.IsLastQuestion() {
		s.timer.stop()
		s.phase = PhaseReport
		return nil
	}
	return s.GoTo(s.current + 1)
}

func (s *Session) IsLastQuestion() bool {
	return len(s.questions) > 0 && s.current == len(s.questions)-1
}
