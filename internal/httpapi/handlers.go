package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"timed-quiz/internal/report"
	"timed-quiz/internal/session"
)

const (
	navPrevious = "previous"
	navNext     = "next"
	navGoTo     = "goto"
)

var errUnknownAction = errors.New("action must be one of previous, next, goto")

// HTML routes follow post/redirect/get: every form post mutates the session
// and sends the browser back to "/", which renders the current phase.

func (a *API) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		http.Error(w, "quiz service unavailable", http.StatusInternalServerError)
		return
	}

	if err := a.views.render(w, http.StatusOK, a.controller.Snapshot()); err != nil {
		a.logger.Error("failed to render page", "error", err)
	}
}

func (a *API) HandleStartForm(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		http.Error(w, "quiz service unavailable", http.StatusInternalServerError)
		return
	}

	if err := a.controller.Start(r.FormValue("email")); err != nil {
		var validationErr *session.ValidationError
		if !errors.As(err, &validationErr) {
			a.logger.Warn("start rejected", "error", err)
		}
	}
	redirectHome(w, r)
}

func (a *API) HandleAnswerForm(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		http.Error(w, "quiz service unavailable", http.StatusInternalServerError)
		return
	}

	index, err := parseIndex(r.FormValue("index"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := a.controller.RecordAnswer(index, r.FormValue("choice")); err != nil {
		a.logger.Warn("answer rejected", "index", index, "error", err)
	}
	redirectHome(w, r)
}

func (a *API) HandleNavigateForm(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		http.Error(w, "quiz service unavailable", http.StatusInternalServerError)
		return
	}

	var index *int
	if raw := r.FormValue("index"); raw != "" {
		parsed, err := parseIndex(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		index = &parsed
	}

	if err := a.navigate(r.FormValue("action"), index); err != nil {
		if errors.Is(err, errUnknownAction) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a.logger.Warn("navigation rejected", "action", r.FormValue("action"), "error", err)
	}
	redirectHome(w, r)
}

func (a *API) HandleRestartForm(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		http.Error(w, "quiz service unavailable", http.StatusInternalServerError)
		return
	}

	a.controller.Restart()
	redirectHome(w, r)
}

func (a *API) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(a.controller.Snapshot()))
}

func (a *API) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	var request startRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := a.controller.Start(request.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toSessionResponse(a.controller.Snapshot()))
}

func (a *API) HandleRecordAnswer(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	var request answerRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if request.Index == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index is required"})
		return
	}

	if err := a.controller.RecordAnswer(*request.Index, request.Choice); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(a.controller.Snapshot()))
}

func (a *API) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	var request navigationRequest
	if err := decodeJSON(r, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := a.navigate(request.Action, request.Index); err != nil {
		if errors.Is(err, errUnknownAction) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(a.controller.Snapshot()))
}

func (a *API) HandleRestart(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, restartResponse{SessionID: a.controller.Restart()})
}

func (a *API) HandleReport(w http.ResponseWriter, r *http.Request) {
	if a.controller == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	snapshot := a.controller.Snapshot()
	if snapshot.Phase != session.PhaseReport {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "report is available once the quiz has finished"})
		return
	}

	result := report.ComputeReport(snapshot)
	writeJSON(w, http.StatusOK, reportResponse{
		SessionID: snapshot.SessionID,
		Report:    result,
		Percent:   result.Percent(),
	})
}

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) navigate(action string, index *int) error {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case navPrevious:
		return a.controller.GoPrevious()
	case navNext:
		return a.controller.GoNextOrFinish()
	case navGoTo:
		if index == nil {
			return session.ErrIndexOutOfRange
		}
		return a.controller.GoTo(*index)
	default:
		return errUnknownAction
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
