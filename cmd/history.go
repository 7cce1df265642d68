package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show attempts, best and last score per quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		quizzes, err := e.store.QuizRepo().List(ctx)
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}
		attempts, err := e.store.AttemptRepo().List(ctx)
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}

		printHistory(cmd.OutOrStdout(), quiz.History(quizzes, attempts))
		return nil
	},
}

func printHistory(w io.Writer, entries []quiz.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No quizzes yet.")
		return
	}

	fmt.Fprintf(w, "%-32s  %-10s  %8s  %-12s  %-12s\n", "Subject", "Created", "Attempts", "Best", "Last")
	fmt.Fprintln(w, strings.Repeat("─", 84))
	for _, e := range entries {
		best, last := "-", "-"
		if e.Stats.Attempted() {
			best = scoreCell(e.Stats.BestScore, e.Stats.Total)
			last = scoreCell(e.Stats.LastScore, e.Stats.Total)
		}
		fmt.Fprintf(w, "%-32s  %-10s  %8d  %-12s  %-12s\n",
			truncate(e.Quiz.Subject, 32),
			e.Quiz.CreatedAt.Local().Format("2006-01-02"),
			e.Stats.Attempts,
			best,
			last,
		)
	}
}

func scoreCell(score, total int) string {
	return fmt.Sprintf("%d/%d %d%%", score, total, quiz.Percent(score, total))
}
