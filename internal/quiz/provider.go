package quiz

import (
	"context"
	"errors"
	"fmt"

	"timed-quiz/internal/opentdb"
)

// DefaultBatchSize is the number of questions requested per session.
const DefaultBatchSize = 15

var ErrNoFetcher = errors.New("question fetcher is not configured")

// QuestionsFetcher returns up to amount raw trivia items.
type QuestionsFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

// FetchError reports a transport or parse failure while retrieving questions.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch questions: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Provider fetches one fixed-size batch of questions per call. It never
// retries and never touches session state.
type Provider struct {
	fetcher   QuestionsFetcher
	batchSize int
	shuffle   ShuffleFunc
}

type ProviderOption func(*Provider)

func WithShuffle(shuffle ShuffleFunc) ProviderOption {
	return func(p *Provider) {
		p.shuffle = shuffle
	}
}

func NewProvider(fetcher QuestionsFetcher, batchSize int, opts ...ProviderOption) *Provider {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	provider := &Provider{
		fetcher:   fetcher,
		batchSize: batchSize,
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

func (p *Provider) BatchSize() int {
	return p.batchSize
}

func (p *Provider) FetchQuestions(ctx context.Context) ([]Question, error) {
	if p.fetcher == nil {
		return nil, &FetchError{Err: ErrNoFetcher}
	}

	raw, err := p.fetcher(ctx, p.batchSize)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	return BuildQuestionsWith(raw, p.shuffle), nil
}
