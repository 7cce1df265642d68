package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/store"
	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Browse stored quizzes",
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quizzes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		quizzes, err := e.store.QuizRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(quizzes) == 0 {
			fmt.Fprintln(out, "No quizzes yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-16s  %-12s  %3s  %s\n", "ID", "Created", "Source", "Qs", "Subject")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, q := range quizzes {
			fmt.Fprintf(out, "%-36s  %-16s  %-12s  %3d  %s\n",
				q.ID,
				q.CreatedAt.Local().Format("2006-01-02 15:04"),
				q.AISource,
				len(q.Questions),
				q.Subject,
			)
		}
		return nil
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		q, err := e.store.QuizRepo().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("quiz %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get quiz: %w", err)
		}

		showAnswers, _ := cmd.Flags().GetBool("answers")
		printQuiz(cmd.OutOrStdout(), q, showAnswers)
		return nil
	},
}

// printQuiz writes q as numbered questions with lettered options. With
// answers set, the correct option is marked and explanations follow.
func printQuiz(w io.Writer, q *quiz.Quiz, answers bool) {
	fmt.Fprintf(w, "%s  (%d questions, %s)\n", q.Subject, len(q.Questions), q.AISource.DisplayName())
	fmt.Fprintf(w, "ID: %s\n", q.ID)

	for i, question := range q.Questions {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, question.Question)
		for j, opt := range question.Options {
			mark := " "
			if answers && j == question.CorrectAnswer {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %c) %s\n", mark, 'A'+j, opt)
		}
		if answers && question.Explanation != "" {
			fmt.Fprintf(w, "     %s\n", question.Explanation)
		}
	}
}

func init() {
	quizListCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	quizShowCmd.Flags().Bool("answers", false, "Reveal correct answers and explanations")

	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizShowCmd)
}
