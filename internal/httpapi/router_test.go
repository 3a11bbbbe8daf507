package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timed-quiz/internal/quiz"
	"timed-quiz/internal/session"
)

func TestTimerWebsocketStreamsCountdown(t *testing.T) {
	controller := session.NewController(providerFunc(func(ctx context.Context) ([]quiz.Question, error) {
		return testQuestions(), nil
	}), session.Options{
		Duration:     3 * time.Second,
		TickInterval: 5 * time.Millisecond,
		Logger:       discardLogger(),
	})
	t.Cleanup(controller.Close)

	server := httptest.NewServer(NewRouter(controller, RouterOptions{Logger: discardLogger()}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/timer"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	var first timerMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "start", first.Phase)
	assert.Equal(t, "00:03", first.Remaining)

	require.NoError(t, controller.Start("player@example.com"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg timerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Phase == "report" {
			assert.Equal(t, 0, msg.RemainingSeconds)
			assert.Equal(t, "00:00", msg.Remaining)
			assert.Equal(t, first.SessionID, msg.SessionID)
			return
		}
	}
}

func TestCORSOnlyWhenConfigured(t *testing.T) {
	controller := session.NewController(nil, session.Options{Logger: discardLogger()})
	t.Cleanup(controller.Close)

	handler := NewRouter(controller, RouterOptions{
		AllowedOrigins: []string{"http://quiz.test"},
		Logger:         discardLogger(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("Origin", "http://quiz.test")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://quiz.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
