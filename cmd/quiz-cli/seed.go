package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"timed-quiz/internal/questionsource"
	"timed-quiz/internal/quiz/sqlite"
)

var (
	seedCount   int
	seedBatches int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import OpenTriviaDB questions into the local SQLite bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount < 1 || seedCount > 50 {
			return fmt.Errorf("count must be between 1 and 50, got %d", seedCount)
		}
		if seedBatches < 1 {
			return fmt.Errorf("batches must be positive, got %d", seedBatches)
		}

		store, err := sqlite.NewSQLiteStore(cfg.Provider.SQLitePath)
		if err != nil {
			return err
		}
		defer store.Close()

		client := questionsource.NewOpenTDBClient(cfg.Provider)
		total := 0
		for batch := 1; batch <= seedBatches; batch++ {
			raw, err := client.FetchQuestions(cmd.Context(), seedCount)
			if err != nil {
				return fmt.Errorf("batch %d: %w", batch, err)
			}
			inserted, err := store.SaveQuestions(cmd.Context(), raw)
			if err != nil {
				return fmt.Errorf("batch %d: %w", batch, err)
			}
			total += inserted
			fmt.Fprintf(cmd.OutOrStdout(), "batch %d: fetched %d, stored %d new\n", batch, len(raw), inserted)
		}

		count, err := store.CountQuestions(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %d questions; bank %s now holds %d\n", total, store.Path(), count)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 50, "questions per request (max 50)")
	seedCmd.Flags().IntVar(&seedBatches, "batches", 1, "number of requests to make")
	rootCmd.AddCommand(seedCmd)
}
