package quiz

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"math/rand"
	"strings"

	"timed-quiz/internal/opentdb"
)

// Question is immutable once built. Choices holds the correct answer and the
// distractors in the order fixed at construction.
type Question struct {
	QuestionID    string   `json:"question_id"`
	Text          string   `json:"text"`
	Category      string   `json:"category,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Choices       []string `json:"choices"`
}

// ShuffleFunc permutes n elements in place through swap.
type ShuffleFunc func(n int, swap func(i, j int))

func BuildQuestions(raw []opentdb.RawQuestion) []Question {
	return BuildQuestionsWith(raw, rand.Shuffle)
}

func BuildQuestionsWith(raw []opentdb.RawQuestion, shuffle ShuffleFunc) []Question {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}

	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		question := buildQuestion(item, shuffle)
		question.QuestionID = MakeQuestionID(question)
		questions = append(questions, question)
	}
	return questions
}

// ChoiceIndex returns the position of choice in q.Choices, or -1.
func (q Question) ChoiceIndex(choice string) int {
	for idx, candidate := range q.Choices {
		if candidate == choice {
			return idx
		}
	}
	return -1
}

// MakeQuestionID hashes the prompt and the correct answer, so the id is stable
// across reshuffles of the same trivia item.
func MakeQuestionID(question Question) string {
	var keyBuilder strings.Builder
	keyBuilder.WriteString(question.Text)
	keyBuilder.WriteString("|")
	keyBuilder.WriteString(question.CorrectAnswer)

	hash := sha1.Sum([]byte(keyBuilder.String()))
	return "q_" + hex.EncodeToString(hash[:])[:12]
}

// Entities are decoded here once; renderers treat the result as plain text.
func buildQuestion(raw opentdb.RawQuestion, shuffle ShuffleFunc) Question {
	choices := make([]string, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, html.UnescapeString(incorrect))
	}

	correct := html.UnescapeString(raw.CorrectAnswer)
	choices = append(choices, correct)

	shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	return Question{
		Text:          html.UnescapeString(raw.Question),
		Category:      html.UnescapeString(raw.Category),
		Difficulty:    raw.Difficulty,
		CorrectAnswer: correct,
		Choices:       choices,
	}
}
