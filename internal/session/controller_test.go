package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timed-quiz/internal/quiz"
)

type providerFunc func(ctx context.Context) ([]quiz.Question, error)

func (f providerFunc) FetchQuestions(ctx context.Context) ([]quiz.Question, error) {
	return f(ctx)
}

func staticProvider(questions []quiz.Question) providerFunc {
	return func(ctx context.Context) ([]quiz.Question, error) {
		return questions, nil
	}
}

func newTestController(t *testing.T, provider QuestionProvider, duration time.Duration) *Controller {
	t.Helper()
	c := NewController(provider, Options{
		Duration:     duration,
		TickInterval: 2 * time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(c.Close)
	return c
}

func waitFor(t *testing.T, c *Controller, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return cond(c.Snapshot())
	}, 2*time.Second, time.Millisecond)
	return c.Snapshot()
}

func TestControllerStartLoadsQuestions(t *testing.T) {
	c := newTestController(t, staticProvider(sampleQuestions(3)), time.Hour)

	require.NoError(t, c.Start("player@example.com"))
	snapshot := waitFor(t, c, func(s Snapshot) bool { return !s.Loading })

	assert.Equal(t, PhaseQuiz, snapshot.Phase)
	assert.Len(t, snapshot.Questions, 3)
	assert.NotEmpty(t, snapshot.SessionID)
	assert.Equal(t, TimerRunning, snapshot.Timer)
}

func TestControllerRejectsInvalidEmail(t *testing.T) {
	c := newTestController(t, staticProvider(sampleQuestions(1)), time.Hour)

	err := c.Start("no-at-sign")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	snapshot := c.Snapshot()
	assert.Equal(t, PhaseStart, snapshot.Phase)
	assert.Equal(t, InvalidEmailMessage, snapshot.ErrorMessage)
}

func TestControllerTimeoutMovesToReport(t *testing.T) {
	c := newTestController(t, staticProvider(sampleQuestions(3)), 50*time.Second)

	require.NoError(t, c.Start("player@example.com"))
	waitFor(t, c, func(s Snapshot) bool { return !s.Loading })
	require.NoError(t, c.RecordAnswer(0, "A"))

	snapshot := waitFor(t, c, func(s Snapshot) bool { return s.Phase == PhaseReport })
	assert.Equal(t, 0, snapshot.RemainingSeconds)
	assert.Equal(t, TimerStopped, snapshot.Timer)
	assert.Equal(t, map[int]string{0: "A"}, snapshot.Answers)
}

func TestControllerFetchFailure(t *testing.T) {
	c := newTestController(t, providerFunc(func(ctx context.Context) ([]quiz.Question, error) {
		return nil, &quiz.FetchError{Err: errors.New("network down")}
	}), time.Hour)

	require.NoError(t, c.Start("player@example.com"))
	snapshot := waitFor(t, c, func(s Snapshot) bool { return !s.Loading })

	assert.Equal(t, FetchFailedMessage, snapshot.ErrorMessage)
	assert.Empty(t, snapshot.Questions)
	assert.Equal(t, PhaseQuiz, snapshot.Phase)
	assert.NoError(t, c.GoNextOrFinish())
	assert.NoError(t, c.GoPrevious())
}

func TestControllerFinishStopsTimer(t *testing.T) {
	c := newTestController(t, staticProvider(sampleQuestions(1)), time.Hour)

	require.NoError(t, c.Start("player@example.com"))
	waitFor(t, c, func(s Snapshot) bool { return !s.Loading })

	require.NoError(t, c.GoNextOrFinish())
	snapshot := c.Snapshot()
	assert.Equal(t, PhaseReport, snapshot.Phase)
	assert.Equal(t, TimerStopped, snapshot.Timer)

	remaining := snapshot.RemainingSeconds
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, remaining, c.Snapshot().RemainingSeconds)
}

func TestControllerRestartDropsStaleFetch(t *testing.T) {
	release := make(chan struct{})
	c := newTestController(t, providerFunc(func(ctx context.Context) ([]quiz.Question, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return sampleQuestions(2), nil
	}), time.Hour)

	require.NoError(t, c.Start("player@example.com"))
	oldID := c.Snapshot().SessionID

	newID := c.Restart()
	assert.NotEqual(t, oldID, newID)
	close(release)

	time.Sleep(20 * time.Millisecond)
	snapshot := c.Snapshot()
	assert.Equal(t, newID, snapshot.SessionID)
	assert.Equal(t, PhaseStart, snapshot.Phase)
	assert.Empty(t, snapshot.Questions)
	assert.Equal(t, int(time.Hour/time.Second), snapshot.RemainingSeconds)
}

func TestControllerRestartUsesDefaultDuration(t *testing.T) {
	c := newTestController(t, staticProvider(sampleQuestions(1)), 0)

	require.NoError(t, c.Start("player@example.com"))
	c.Restart()

	snapshot := c.Snapshot()
	assert.Equal(t, PhaseStart, snapshot.Phase)
	assert.Equal(t, DefaultDurationSeconds, snapshot.RemainingSeconds)
}

func TestControllerTimeoutDuringLoadingKeepsLateQuestions(t *testing.T) {
	release := make(chan struct{})
	c := newTestController(t, providerFunc(func(ctx context.Context) ([]quiz.Question, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return sampleQuestions(3), nil
	}), 2*time.Second)

	require.NoError(t, c.Start("player@example.com"))
	waitFor(t, c, func(s Snapshot) bool { return s.Phase == PhaseReport })
	close(release)

	snapshot := waitFor(t, c, func(s Snapshot) bool { return !s.Loading })
	assert.Equal(t, PhaseReport, snapshot.Phase)
	assert.Len(t, snapshot.Questions, 3)
	assert.Empty(t, snapshot.Answers)
	assert.Empty(t, snapshot.ErrorMessage)
}

func TestControllerForceTimeoutTwice(t *testing.T) {
	c := newTestController(t, staticProvider(sampleQuestions(2)), time.Hour)
	require.NoError(t, c.Start("player@example.com"))

	c.ForceTimeout()
	first := c.Snapshot()
	c.ForceTimeout()
	second := c.Snapshot()

	assert.Equal(t, PhaseReport, second.Phase)
	assert.Equal(t, 0, second.RemainingSeconds)
	assert.Equal(t, first.Phase, second.Phase)
	assert.Equal(t, first.RemainingSeconds, second.RemainingSeconds)
}

func TestControllerSubscribeReceivesUpdates(t *testing.T) {
	c := newTestController(t, staticProvider(sampleQuestions(2)), time.Hour)

	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	initial := <-updates
	assert.Equal(t, PhaseStart, initial.Phase)

	require.NoError(t, c.Start("player@example.com"))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snapshot := <-updates:
			if snapshot.Phase == PhaseQuiz {
				return
			}
		case <-deadline:
			t.Fatal("no quiz-phase update received")
		}
	}
}

func TestControllerCloseClosesSubscribers(t *testing.T) {
	c := NewController(staticProvider(sampleQuestions(1)), Options{
		TickInterval: time.Millisecond,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	updates, _ := c.Subscribe()
	<-updates

	require.NoError(t, c.Start("player@example.com"))
	c.Close()

	for range updates {
	}
	assert.ErrorIs(t, c.Start("other@example.com"), ErrClosed)
}
