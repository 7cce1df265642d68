package cmd

import (
	"fmt"
	"strings"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <subject...>",
	Short: "Generate and store a quiz without the TUI",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject := strings.Join(args, " ")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		deps := e.deps()
		settings, err := deps.Settings.Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		if cmd.Flags().Changed("difficulty") {
			v, _ := cmd.Flags().GetString("difficulty")
			d := quiz.Difficulty(strings.ToLower(v))
			if !d.Valid() {
				return fmt.Errorf("unknown difficulty %q", v)
			}
			settings.Difficulty = d
		}
		settings, err = applyRetryFlags(cmd, settings)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Generating a %s quiz on %q with %s...\n",
			settings.Difficulty, subject, settings.AISource.DisplayName())

		q, err := deps.Generator.Generate(cmd.Context(), subject, settings)
		if err != nil {
			return err
		}

		showAnswers, _ := cmd.Flags().GetBool("answers")
		printQuiz(cmd.OutOrStdout(), q, showAnswers)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("difficulty", "", "Override the stored difficulty for this quiz")
	generateCmd.Flags().Bool("answers", false, "Reveal correct answers and explanations")
	addRetryFlags(generateCmd)
}
