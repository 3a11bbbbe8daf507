package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"timed-quiz/internal/cli"
	"timed-quiz/internal/logging"
	"timed-quiz/internal/questionsource"
)

var playEmail string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a timed quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Provider.Source = strings.ToLower(strings.TrimSpace(cfg.Provider.Source))
		if err := cfg.Validate(); err != nil {
			return err
		}

		provider, closeProvider, err := questionsource.Open(cfg.Provider, cfg.Quiz.QuestionCount)
		if err != nil {
			return err
		}
		defer closeProvider()

		return cli.Run(cmd.Context(), os.Stdin, cmd.OutOrStdout(), cli.Config{
			Email:        playEmail,
			Provider:     provider,
			Duration:     cfg.Quiz.Duration,
			TickInterval: cfg.Quiz.TickInterval,
			Logger:       logging.New(cmd.ErrOrStderr(), logLevel, logFormat),
		})
	},
}

func init() {
	playCmd.Flags().StringVar(&playEmail, "email", "", "email to start the quiz with (prompted when empty)")
	playCmd.Flags().IntVarP(&cfg.Quiz.QuestionCount, "count", "n", cfg.Quiz.QuestionCount, "number of questions")
	playCmd.Flags().DurationVarP(&cfg.Quiz.Duration, "duration", "d", cfg.Quiz.Duration, "time limit for the whole quiz")
	rootCmd.AddCommand(playCmd)
}
