// Package questionsource wires the configured question source into a
// quiz.Provider.
package questionsource

import (
	"fmt"
	"net/http"

	"timed-quiz/internal/config"
	"timed-quiz/internal/opentdb"
	"timed-quiz/internal/quiz"
	"timed-quiz/internal/quiz/sqlite"
)

// Open returns a provider for cfg.Source and a close func for any resources
// it holds.
func Open(cfg config.ProviderConfig, batchSize int) (*quiz.Provider, func() error, error) {
	switch cfg.Source {
	case config.SourceOpenTDB, "":
		client := NewOpenTDBClient(cfg)
		return quiz.NewProvider(client.FetchQuestions, batchSize), func() error { return nil }, nil
	case config.SourceSQLite:
		store, err := sqlite.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open question bank: %w", err)
		}
		return quiz.NewProvider(store.RandomQuestions, batchSize), store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown question source: %q", cfg.Source)
	}
}

func NewOpenTDBClient(cfg config.ProviderConfig) *opentdb.Client {
	return opentdb.NewClientWithURL(&http.Client{Timeout: cfg.OpenTDBTimeout}, cfg.OpenTDBURL)
}
