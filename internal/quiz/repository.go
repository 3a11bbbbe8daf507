package quiz

import (
	"context"
	"errors"

	"timed-quiz/internal/opentdb"
)

var ErrEmptyBank = errors.New("question bank is empty")

// QuestionRepository is a local store of raw trivia items that can stand in
// for the remote provider.
type QuestionRepository interface {
	SaveQuestions(ctx context.Context, questions []opentdb.RawQuestion) (int, error)
	RandomQuestions(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)
	CountQuestions(ctx context.Context) (int, error)
}
