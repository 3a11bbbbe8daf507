package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"timed-quiz/internal/report"
	"timed-quiz/internal/session"
)

var ErrFetchFailed = errors.New("failed to fetch questions")

type Config struct {
	Email        string
	Provider     session.QuestionProvider
	Duration     time.Duration
	TickInterval time.Duration
	Logger       *slog.Logger
}

// Run plays one timed quiz on the terminal. It returns once the report has
// been printed, the user quits, or input ends.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	controller := session.NewController(cfg.Provider, session.Options{
		Duration:     cfg.Duration,
		TickInterval: cfg.TickInterval,
		Logger:       cfg.Logger,
	})
	defer controller.Close()

	updates, unsubscribe := controller.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, in)

	if err := startSession(ctx, out, controller, lines, cfg.Email); err != nil {
		return err
	}

	snapshot, err := waitForQuestions(ctx, updates)
	if err != nil {
		return err
	}
	if snapshot.Phase == session.PhaseReport {
		printReport(out, report.ComputeReport(snapshot))
		return nil
	}
	if snapshot.ErrorMessage != "" {
		fmt.Fprintln(out, snapshot.ErrorMessage)
		return ErrFetchFailed
	}

	fmt.Fprintln(out, "Commands: A-Z answer, n next/finish, p previous, g <number> go to, t time, q quit")
	return play(ctx, out, controller, updates, lines)
}

func startSession(ctx context.Context, out io.Writer, controller *session.Controller, lines <-chan string, email string) error {
	prompt := email == ""
	for {
		if prompt {
			fmt.Fprint(out, "Enter your email: ")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case line, ok := <-lines:
				if !ok {
					return io.EOF
				}
				email = strings.TrimSpace(line)
			}
		}

		err := controller.Start(email)
		if err == nil {
			fmt.Fprintln(out, "Loading questions...")
			return nil
		}
		var validationErr *session.ValidationError
		if !errors.As(err, &validationErr) {
			return err
		}
		fmt.Fprintln(out, validationErr.Message)
		prompt = true
	}
}

func waitForQuestions(ctx context.Context, updates <-chan session.Snapshot) (session.Snapshot, error) {
	for {
		select {
		case <-ctx.Done():
			return session.Snapshot{}, ctx.Err()
		case snapshot, ok := <-updates:
			if !ok {
				return session.Snapshot{}, session.ErrClosed
			}
			if snapshot.Phase != session.PhaseStart && !snapshot.Loading {
				return snapshot, nil
			}
		}
	}
}

func play(ctx context.Context, out io.Writer, controller *session.Controller, updates <-chan session.Snapshot, lines <-chan string) error {
	printQuestion(out, controller.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot, ok := <-updates:
			if !ok {
				return session.ErrClosed
			}
			if snapshot.Phase == session.PhaseReport {
				if snapshot.RemainingSeconds == 0 {
					fmt.Fprintln(out, "\nTime is up!")
				}
				printReport(out, report.ComputeReport(snapshot))
				return nil
			}
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			quit := handleCommand(out, controller, strings.TrimSpace(line))
			if quit {
				return nil
			}
			snapshot := controller.Snapshot()
			if snapshot.Phase == session.PhaseReport {
				printReport(out, report.ComputeReport(snapshot))
				return nil
			}
		}
	}
}

func handleCommand(out io.Writer, controller *session.Controller, line string) bool {
	if line == "" {
		printQuestion(out, controller.Snapshot())
		return false
	}

	args := strings.Fields(line)
	command := strings.ToLower(args[0])

	var err error
	switch command {
	case "q", "quit", "exit":
		return true
	case "t", "time":
		fmt.Fprintf(out, "Time Remaining: %s\n", controller.Snapshot().RemainingDisplay())
		return false
	case "n", "next":
		err = controller.GoNextOrFinish()
	case "p", "prev", "previous":
		err = controller.GoPrevious()
	case "g", "goto":
		if len(args) != 2 {
			fmt.Fprintln(out, "usage: g <question number>")
			return false
		}
		number, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			fmt.Fprintln(out, "question number must be an integer")
			return false
		}
		err = controller.GoTo(number - 1)
	default:
		snapshot := controller.Snapshot()
		question, ok := snapshot.CurrentQuestion()
		if !ok {
			return false
		}
		choice, valid := choiceForLetter(args[0], question.Choices)
		if !valid {
			fmt.Fprintf(out, "Invalid input. Please enter a letter A-%c or a command.\n", 'A'+len(question.Choices)-1)
			return false
		}
		err = controller.RecordAnswer(snapshot.CurrentIndex, choice)
	}

	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return false
	}
	if snapshot := controller.Snapshot(); snapshot.Phase == session.PhaseQuiz {
		printQuestion(out, snapshot)
	}
	return false
}

func printQuestion(out io.Writer, snapshot session.Snapshot) {
	question, ok := snapshot.CurrentQuestion()
	if !ok {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Time Remaining: %s\n", snapshot.RemainingDisplay())
	fmt.Fprintf(out, "Question %d of %d: %s\n\n", snapshot.CurrentIndex+1, len(snapshot.Questions), question.Text)

	selectedIdx := -1
	if selected, answered := snapshot.Answers[snapshot.CurrentIndex]; answered {
		selectedIdx = question.ChoiceIndex(selected)
	}
	for idx, choice := range question.Choices {
		marker := " "
		if idx == selectedIdx {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %c. %s\n", marker, 'A'+idx, choice)
	}

	label := "next"
	if snapshot.IsLastQuestion() {
		label = "finish"
	}
	fmt.Fprintf(out, "\n[n] %s  [p] previous  [g N] go to\n> ", label)
}

func printReport(out io.Writer, result report.Report) {
	fmt.Fprintf(out, "\nFinal score: %d/%d\n\n", result.Score, result.Total)
	for _, entry := range result.Breakdown {
		status := "Wrong"
		if entry.Correct {
			status = "Correct"
		}
		fmt.Fprintf(out, "Q%d: %s\n", entry.Index+1, entry.Question.Text)
		fmt.Fprintf(out, "  Your answer: %s (%s)\n", entry.DisplayAnswer(), status)
		fmt.Fprintf(out, "  Correct answer: %s\n", entry.Question.CorrectAnswer)
	}
}

func choiceForLetter(input string, choices []string) (string, bool) {
	letter := strings.ToUpper(strings.TrimSpace(input))
	if len(letter) != 1 {
		return "", false
	}

	idx := int(letter[0]) - 'A'
	if idx < 0 || idx >= len(choices) {
		return "", false
	}
	return choices[idx], true
}

// readLines pumps in line by line so the quiz loop can select on input and
// timer updates together.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}
