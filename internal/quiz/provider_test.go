package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timed-quiz/internal/opentdb"
)

func TestProviderRequestsFixedBatch(t *testing.T) {
	var seenAmount int
	fetcher := func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error) {
		seenAmount = amount
		return []opentdb.RawQuestion{
			{Question: "Q1", CorrectAnswer: "A", IncorrectAnswers: []string{"B"}},
			{Question: "Q2", CorrectAnswer: "C", IncorrectAnswers: []string{"D"}},
		}, nil
	}

	provider := NewProvider(fetcher, 0, WithShuffle(reverseShuffle))
	questions, err := provider.FetchQuestions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultBatchSize, seenAmount)
	assert.Equal(t, DefaultBatchSize, provider.BatchSize())
	require.Len(t, questions, 2)
	assert.Equal(t, []string{"A", "B"}, questions[0].Choices)
	assert.Equal(t, "C", questions[1].CorrectAnswer)
}

func TestProviderWrapsFetchFailure(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	provider := NewProvider(func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error) {
		return nil, cause
	}, 15)

	questions, err := provider.FetchQuestions(context.Background())
	require.Error(t, err)
	assert.Nil(t, questions)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, cause)
}

func TestProviderWithoutFetcher(t *testing.T) {
	_, err := NewProvider(nil, 15).FetchQuestions(context.Background())
	assert.ErrorIs(t, err, ErrNoFetcher)
}
