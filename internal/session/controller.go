package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"timed-quiz/internal/quiz"
)

const (
	defaultTickInterval = time.Second
	defaultFetchTimeout = 30 * time.Second
)

var ErrClosed = errors.New("controller is closed")

// QuestionProvider returns one batch of questions for a new session.
type QuestionProvider interface {
	FetchQuestions(ctx context.Context) ([]quiz.Question, error)
}

type Options struct {
	Duration     time.Duration
	TickInterval time.Duration
	FetchTimeout time.Duration
	Logger       *slog.Logger
}

// Controller owns the single live Session. Every mutation, whether from a
// request handler, the timer goroutine or the fetch goroutine, happens under
// mu. Restart swaps in a fresh Session with a new id; goroutines bound to the
// old id stop touching state.
type Controller struct {
	mu       sync.Mutex
	provider QuestionProvider
	logger   *slog.Logger

	durationSeconds int
	tickInterval    time.Duration
	fetchTimeout    time.Duration

	id          uuid.UUID
	session     *Session
	stopTimer   context.CancelFunc
	baseCtx     context.Context
	stopAll     context.CancelFunc
	subscribers map[chan Snapshot]struct{}
	closed      bool
	wg          sync.WaitGroup
}

func NewController(provider QuestionProvider, opts Options) *Controller {
	durationSeconds := int(opts.Duration / time.Second)
	if durationSeconds <= 0 {
		durationSeconds = DefaultDurationSeconds
	}
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = defaultTickInterval
	}
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	baseCtx, stopAll := context.WithCancel(context.Background())
	return &Controller{
		provider:        provider,
		logger:          logger,
		durationSeconds: durationSeconds,
		tickInterval:    tickInterval,
		fetchTimeout:    fetchTimeout,
		id:              uuid.New(),
		session:         New(durationSeconds),
		baseCtx:         baseCtx,
		stopAll:         stopAll,
		subscribers:     make(map[chan Snapshot]struct{}),
	}
}

func (c *Controller) Start(email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if err := c.session.StartSession(email); err != nil {
		c.notifyLocked()
		return err
	}

	c.logger.Info("quiz session started",
		"session_id", c.id,
		"email_domain", emailDomain(email),
		"duration_seconds", c.session.RemainingSeconds(),
	)

	timerCtx, stopTimer := context.WithCancel(c.baseCtx)
	c.stopTimer = stopTimer

	c.wg.Add(2)
	go c.runTimer(timerCtx, c.id)
	go c.fetchQuestions(c.id)

	c.notifyLocked()
	return nil
}

func (c *Controller) RecordAnswer(index int, choice string) error {
	return c.mutate(func(s *Session) error {
		return s.RecordAnswer(index, choice)
	})
}

func (c *Controller) GoTo(index int) error {
	return c.mutate(func(s *Session) error {
		return s.GoTo(index)
	})
}

func (c *Controller) GoPrevious() error {
	return c.mutate(func(s *Session) error {
		return s.GoPrevious()
	})
}

func (c *Controller) GoNextOrFinish() error {
	return c.mutate(func(s *Session) error {
		return s.GoNextOrFinish()
	})
}

func (c *Controller) ForceTimeout() {
	_ = c.mutate(func(s *Session) error {
		s.ForceTimeout()
		return nil
	})
}

// Restart discards the current session entirely and returns the new id.
func (c *Controller) Restart() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelTimerLocked()
	previous := c.id
	c.id = uuid.New()
	c.session = New(c.durationSeconds)

	c.logger.Info("quiz session restarted", "previous_session_id", previous, "session_id", c.id)
	c.notifyLocked()
	return c.id.String()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe delivers the latest Snapshot after every change. Slow readers
// only ever see the most recent value.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	ch <- c.snapshotLocked()
	c.subscribers[ch] = struct{}{}

	unsubscribe := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Close stops the timer and any in-flight fetch and waits for them to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelTimerLocked()
	c.stopAll()
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Controller) mutate(fn func(s *Session) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.session.Phase()
	if err := fn(c.session); err != nil {
		return err
	}
	c.afterChangeLocked(before)
	return nil
}

func (c *Controller) afterChangeLocked(before Phase) {
	if c.session.TimerState() != TimerRunning {
		c.cancelTimerLocked()
	}
	if before != PhaseReport && c.session.Phase() == PhaseReport {
		c.logger.Info("quiz reached report phase",
			"session_id", c.id,
			"remaining_seconds", c.session.RemainingSeconds(),
			"answered", len(c.session.answers),
			"questions", c.session.QuestionCount(),
		)
	}
	c.notifyLocked()
}

func (c *Controller) runTimer(ctx context.Context, id uuid.UUID) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.tick(id) {
				return
			}
		}
	}
}

// tick reports whether the timer goroutine should keep running.
func (c *Controller) tick(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.id != id || c.closed {
		return false
	}

	before := c.session.Phase()
	if c.session.Tick() {
		c.logger.Info("quiz timed out", "session_id", id)
	}
	c.afterChangeLocked(before)
	return c.session.TimerState() == TimerRunning
}

func (c *Controller) fetchQuestions(id uuid.UUID) {
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(c.baseCtx, c.fetchTimeout)
	defer cancel()

	var (
		questions []quiz.Question
		err       error
	)
	if c.provider == nil {
		err = &quiz.FetchError{Err: quiz.ErrNoFetcher}
	} else {
		questions, err = c.provider.FetchQuestions(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.id != id {
		c.logger.Debug("discarding questions for replaced session", "session_id", id)
		return
	}

	before := c.session.Phase()
	if err != nil {
		c.logger.Error("failed to fetch questions", "session_id", id, "phase", before.String(), "error", err)
		c.session.ApplyFetchError()
	} else if applyErr := c.session.ApplyQuestions(questions); applyErr != nil {
		c.logger.Warn("questions rejected", "session_id", id, "error", applyErr)
	} else {
		c.logger.Info("questions loaded", "session_id", id, "count", len(questions), "phase", before.String())
	}
	c.afterChangeLocked(before)
}

func (c *Controller) cancelTimerLocked() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snapshot := c.session.Snapshot()
	snapshot.SessionID = c.id.String()
	return snapshot
}

func (c *Controller) notifyLocked() {
	if len(c.subscribers) == 0 {
		return
	}
	snapshot := c.snapshotLocked()
	for ch := range c.subscribers {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}
