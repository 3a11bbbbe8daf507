package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"timed-quiz/internal/opentdb"
	"timed-quiz/internal/quiz"
)

// SaveQuestions stores the given items and reports how many were new.
// Items already present (same prompt and correct answer) are left untouched.
func (s *SQLiteStore) SaveQuestions(ctx context.Context, questions []opentdb.RawQuestion) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().UnixNano()
	inserted := 0
	for _, question := range questions {
		if question.Question == "" || question.CorrectAnswer == "" {
			continue
		}

		incorrect := question.IncorrectAnswers
		if incorrect == nil {
			incorrect = []string{}
		}
		incorrectJSON, err := json.Marshal(incorrect)
		if err != nil {
			return 0, err
		}

		result, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO questions
				(question_id, kind, category, difficulty, prompt, correct_answer, incorrect_json, created_at_unix)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rawQuestionID(question),
			question.Type,
			question.Category,
			question.Difficulty,
			question.Question,
			question.CorrectAnswer,
			string(incorrectJSON),
			now,
		)
		if err != nil {
			return 0, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// RandomQuestions matches quiz.QuestionsFetcher so the bank can replace the
// remote provider.
func (s *SQLiteStore) RandomQuestions(ctx context.Context, amount int) ([]opentdb.RawQuestion, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amount)
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT kind, category, difficulty, prompt, correct_answer, incorrect_json
		 FROM questions
		 ORDER BY RANDOM()
		 LIMIT ?`,
		amount,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]opentdb.RawQuestion, 0, amount)
	for rows.Next() {
		var (
			question      opentdb.RawQuestion
			incorrectJSON string
		)
		if err := rows.Scan(
			&question.Type,
			&question.Category,
			&question.Difficulty,
			&question.Question,
			&question.CorrectAnswer,
			&incorrectJSON,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(incorrectJSON), &question.IncorrectAnswers); err != nil {
			return nil, fmt.Errorf("decode incorrect answers: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, quiz.ErrEmptyBank
	}
	return questions, nil
}

func (s *SQLiteStore) CountQuestions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ quiz.QuestionRepository = (*SQLiteStore)(nil)

func rawQuestionID(question opentdb.RawQuestion) string {
	return quiz.MakeQuestionID(quiz.Question{
		Text:          question.Question,
		CorrectAnswer: question.CorrectAnswer,
	})
}
