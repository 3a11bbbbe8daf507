package httpapi

import (
	"timed-quiz/internal/report"
	"timed-quiz/internal/session"
)

type startRequest struct {
	Email string `json:"email"`
}

type answerRequest struct {
	Index  *int   `json:"index"`
	Choice string `json:"choice"`
}

type navigationRequest struct {
	Action string `json:"action"`
	Index  *int   `json:"index,omitempty"`
}

type questionResponse struct {
	Index         int      `json:"index"`
	QuestionID    string   `json:"question_id"`
	Text          string   `json:"text"`
	Category      string   `json:"category,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

type sessionResponse struct {
	SessionID        string             `json:"session_id"`
	Phase            string             `json:"phase"`
	Email            string             `json:"email,omitempty"`
	Loading          bool               `json:"loading"`
	Error            string             `json:"error,omitempty"`
	Timer            string             `json:"timer"`
	RemainingSeconds int                `json:"remaining_seconds"`
	Remaining        string             `json:"remaining"`
	CurrentIndex     int                `json:"current_index"`
	Visited          []int              `json:"visited"`
	Answers          map[int]string     `json:"answers"`
	Questions        []questionResponse `json:"questions"`
}

type timerMessage struct {
	Type             string `json:"type"`
	SessionID        string `json:"session_id"`
	Phase            string `json:"phase"`
	Loading          bool   `json:"loading"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Remaining        string `json:"remaining"`
}

type restartResponse struct {
	SessionID string `json:"session_id"`
}

type reportResponse struct {
	SessionID string `json:"session_id"`
	report.Report
	Percent float64 `json:"percent"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Correct answers stay hidden until the report phase.
func toSessionResponse(snapshot session.Snapshot) sessionResponse {
	revealAnswers := snapshot.Phase == session.PhaseReport

	questions := make([]questionResponse, 0, len(snapshot.Questions))
	for idx, question := range snapshot.Questions {
		item := questionResponse{
			Index:      idx,
			QuestionID: question.QuestionID,
			Text:       question.Text,
			Category:   question.Category,
			Difficulty: question.Difficulty,
			Choices:    question.Choices,
		}
		if revealAnswers {
			item.CorrectAnswer = question.CorrectAnswer
		}
		questions = append(questions, item)
	}

	return sessionResponse{
		SessionID:        snapshot.SessionID,
		Phase:            snapshot.Phase.String(),
		Email:            snapshot.Email,
		Loading:          snapshot.Loading,
		Error:            snapshot.ErrorMessage,
		Timer:            snapshot.Timer.String(),
		RemainingSeconds: snapshot.RemainingSeconds,
		Remaining:        snapshot.RemainingDisplay(),
		CurrentIndex:     snapshot.CurrentIndex,
		Visited:          snapshot.Visited,
		Answers:          snapshot.Answers,
		Questions:        questions,
	}
}

func toTimerMessage(snapshot session.Snapshot) timerMessage {
	return timerMessage{
		Type:             "state",
		SessionID:        snapshot.SessionID,
		Phase:            snapshot.Phase.String(),
		Loading:          snapshot.Loading,
		RemainingSeconds: snapshot.RemainingSeconds,
		Remaining:        snapshot.RemainingDisplay(),
	}
}
