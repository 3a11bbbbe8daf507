package session

import "fmt"

type TimerState int

const (
	TimerStopped TimerState = iota
	TimerRunning
)

func (t TimerState) String() string {
	if t == TimerRunning {
		return "running"
	}
	return "stopped"
}

// Timer is the countdown engine owned by a Session.
type Timer struct {
	state TimerState
}

func (t *Timer) start() {
	t.state = TimerRunning
}

func (t *Timer) stop() {
	t.state = TimerStopped
}

// Tick advances the countdown by one second. It reports true only on the
// tick that expires the quiz; ticks delivered after that are ignored.
func (s *Session) Tick() bool {
	if s.timer.state != TimerRunning {
		return false
	}
	if s.phase != PhaseQuiz || s.remaining <= 0 {
		s.timer.stop()
		return false
	}

	if s.remaining <= 1 {
		s.ForceTimeout()
		return true
	}
	s.remaining--
	return false
}

// FormatRemaining renders seconds as MM:SS.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
