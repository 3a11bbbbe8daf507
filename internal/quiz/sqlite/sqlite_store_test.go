package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timed-quiz/internal/opentdb"
	"timed-quiz/internal/quiz"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestNewSQLiteStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "bank", "quiz.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
	_, err = os.Stat(path)
	assert.NoError(t, err)

	count, err := store.CountQuestions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNewSQLiteStoreReopensExistingBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	inserted, err := store.SaveQuestions(context.Background(), sampleRawQuestions())
	require.NoError(t, err)
	require.Equal(t, 2, inserted)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.CountQuestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func sampleRawQuestions() []opentdb.RawQuestion {
	return []opentdb.RawQuestion{
		{
			Type:             "multiple",
			Category:         "Geography",
			Difficulty:       "easy",
			Question:         "Capital of France?",
			CorrectAnswer:    "Paris",
			IncorrectAnswers: []string{"Lyon", "Nice", "Lille"},
		},
		{
			Type:             "boolean",
			Category:         "Science &amp; Nature",
			Difficulty:       "medium",
			Question:         "The sky is blue.",
			CorrectAnswer:    "True",
			IncorrectAnswers: []string{"False"},
		},
	}
}

func TestSQLiteStoreSaveAndCount(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	inserted, err := store.SaveQuestions(ctx, sampleRawQuestions())
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	count, err := store.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteStoreSaveSkipsDuplicatesAndIncomplete(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := store.SaveQuestions(ctx, sampleRawQuestions())
	require.NoError(t, err)

	batch := append(sampleRawQuestions(), opentdb.RawQuestion{Question: "No answer"})
	inserted, err := store.SaveQuestions(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	count, err := store.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteStoreRandomQuestionsRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := store.SaveQuestions(ctx, sampleRawQuestions())
	require.NoError(t, err)

	got, err := store.RandomQuestions(ctx, 15)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byPrompt := make(map[string]opentdb.RawQuestion, len(got))
	for _, item := range got {
		byPrompt[item.Question] = item
	}
	assert.Equal(t, sampleRawQuestions()[0], byPrompt["Capital of France?"])
	assert.Equal(t, sampleRawQuestions()[1], byPrompt["The sky is blue."])

	one, err := store.RandomQuestions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestSQLiteStoreRandomQuestionsEmptyBank(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, err := store.RandomQuestions(context.Background(), 5)
	assert.ErrorIs(t, err, quiz.ErrEmptyBank)

	_, err = store.RandomQuestions(context.Background(), 0)
	assert.Error(t, err)
}

func TestSQLiteStoreFeedsProvider(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := store.SaveQuestions(ctx, sampleRawQuestions())
	require.NoError(t, err)

	provider := quiz.NewProvider(store.RandomQuestions, quiz.DefaultBatchSize)
	questions, err := provider.FetchQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	for _, question := range questions {
		assert.GreaterOrEqual(t, question.ChoiceIndex(question.CorrectAnswer), 0)
	}
}
