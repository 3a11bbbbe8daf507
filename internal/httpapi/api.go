package httpapi

import (
	"log/slog"

	"timed-quiz/internal/session"
)

// QuizController is the subset of session.Controller the handlers drive.
type QuizController interface {
	Start(email string) error
	RecordAnswer(index int, choice string) error
	GoTo(index int) error
	GoPrevious() error
	GoNextOrFinish() error
	Restart() string
	Snapshot() session.Snapshot
	Subscribe() (<-chan session.Snapshot, func())
}

type API struct {
	controller QuizController
	views      *views
	logger     *slog.Logger
}

func NewAPI(controller QuizController, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		controller: controller,
		views:      mustLoadViews(),
		logger:     logger,
	}
}
