// Package report scores a finished quiz session.
package report

import (
	"timed-quiz/internal/quiz"
	"timed-quiz/internal/session"
)

const NotAnswered = "Not answered"

type Entry struct {
	Index      int           `json:"index"`
	Question   quiz.Question `json:"question"`
	UserAnswer string        `json:"user_answer,omitempty"`
	Answered   bool          `json:"answered"`
	Correct    bool          `json:"correct"`
}

func (e Entry) DisplayAnswer() string {
	if !e.Answered {
		return NotAnswered
	}
	return e.UserAnswer
}

type Report struct {
	Score     int     `json:"score"`
	Total     int     `json:"total"`
	Breakdown []Entry `json:"breakdown"`
}

// Percent is the score as a percentage of total, or 0 with no questions.
func (r Report) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.Total)
}

func ComputeReport(snapshot session.Snapshot) Report {
	return Compute(snapshot.Questions, snapshot.Answers)
}

// Compute counts exact, case-sensitive matches between answers and each
// question's correct answer. Missing answers never count.
func Compute(questions []quiz.Question, answers map[int]string) Report {
	report := Report{
		Total:     len(questions),
		Breakdown: make([]Entry, 0, len(questions)),
	}

	for idx, question := range questions {
		answer, answered := answers[idx]
		correct := answered && answer == question.CorrectAnswer
		if correct {
			report.Score++
		}
		report.Breakdown = append(report.Breakdown, Entry{
			Index:      idx,
			Question:   question,
			UserAnswer: answer,
			Answered:   answered,
			Correct:    correct,
		})
	}

	return report
}
