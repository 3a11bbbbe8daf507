package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"timed-quiz/internal/config"
)

var (
	cfg       = config.Default()
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "quiz-cli",
	Short: "A timed trivia quiz in the terminal",
	Long: `quiz-cli plays a timed multiple-choice trivia quiz backed by
OpenTriviaDB or a local SQLite question bank.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.Provider.Source, "source", cfg.Provider.Source, "question source: opentdb or sqlite")
	flags.StringVar(&cfg.Provider.OpenTDBURL, "opentdb-url", cfg.Provider.OpenTDBURL, "OpenTriviaDB endpoint")
	flags.DurationVar(&cfg.Provider.OpenTDBTimeout, "timeout", cfg.Provider.OpenTDBTimeout, "HTTP timeout for OpenTriviaDB")
	flags.StringVar(&cfg.Provider.SQLitePath, "db", cfg.Provider.SQLitePath, "path to the SQLite question bank")
	flags.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "text", "log format: text or json")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
