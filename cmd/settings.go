package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change quiz generation settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		s, err := e.store.SettingsRepo().Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		printSettings(cmd.OutOrStdout(), s)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		repo := e.store.SettingsRepo()
		current, err := repo.Get(cmd.Context())
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}

		updated, err := applySettingsFlags(cmd, current)
		if err != nil {
			return err
		}
		if err := repo.Put(cmd.Context(), updated); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		e.log.Info("settings updated", "source", updated.AISource, "model", updated.Model, "api_key", maskKey(updated.APIKey))

		printSettings(cmd.OutOrStdout(), updated)
		return nil
	},
}

// applySettingsFlags overlays the flags that were set on s. Switching the
// source without --model selects the source's default model.
func applySettingsFlags(cmd *cobra.Command, s quiz.Settings) (quiz.Settings, error) {
	flags := cmd.Flags()

	if flags.Changed("source") {
		v, _ := flags.GetString("source")
		src := quiz.AISource(strings.ToLower(strings.TrimSpace(v)))
		if !src.Valid() {
			return s, fmt.Errorf("unknown source %q", v)
		}
		if src != s.AISource {
			s = s.WithSource(src)
		}
	}
	if flags.Changed("endpoint") {
		s.Endpoint, _ = flags.GetString("endpoint")
		s.Endpoint = strings.TrimRight(strings.TrimSpace(s.Endpoint), "/")
	}
	if flags.Changed("api-key") {
		s.APIKey, _ = flags.GetString("api-key")
		s.APIKey = strings.TrimSpace(s.APIKey)
	}
	if flags.Changed("model") {
		s.Model, _ = flags.GetString("model")
		s.Model = strings.TrimSpace(s.Model)
		if s.Model == "" {
			return s, fmt.Errorf("--model cannot be empty")
		}
	}
	if flags.Changed("difficulty") {
		v, _ := flags.GetString("difficulty")
		d := quiz.Difficulty(strings.ToLower(strings.TrimSpace(v)))
		if !d.Valid() {
			return s, fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", v)
		}
		s.Difficulty = d
	}
	return applyRetryFlags(cmd, s)
}

// applyRetryFlags overlays --retries and --timeout. Both default to off.
func applyRetryFlags(cmd *cobra.Command, s quiz.Settings) (quiz.Settings, error) {
	flags := cmd.Flags()
	if flags.Changed("retries") {
		s.Retries, _ = flags.GetInt("retries")
	}
	if flags.Changed("timeout") {
		s.Timeout, _ = flags.GetDuration("timeout")
	}
	if err := s.CheckLimits(); err != nil {
		return s, err
	}
	return s, nil
}

func addRetryFlags(cmd *cobra.Command) {
	cmd.Flags().Int("retries", 0, fmt.Sprintf("Retries after a transient model failure (0-%d)", quiz.MaxRetries))
	cmd.Flags().Duration("timeout", 0, "Time limit per model call, e.g. 90s (0 for none)")
}

func printSettings(w io.Writer, s quiz.Settings) {
	key := "(not set)"
	if s.APIKey != "" {
		key = maskKey(s.APIKey)
	}
	fmt.Fprintf(w, "Source:      %s\n", s.AISource.DisplayName())
	if s.AISource.IsLocal() {
		fmt.Fprintf(w, "Endpoint:    %s\n", s.Endpoint)
	} else {
		fmt.Fprintf(w, "API key:     %s\n", key)
	}
	fmt.Fprintf(w, "Model:       %s\n", s.Model)
	fmt.Fprintf(w, "Difficulty:  %s\n", s.Difficulty)

	retries := "0 (off)"
	if s.Retries > 0 {
		retries = fmt.Sprint(s.Retries)
	}
	timeout := "none"
	if s.Timeout > 0 {
		timeout = s.Timeout.String()
	}
	fmt.Fprintf(w, "Retries:     %s\n", retries)
	fmt.Fprintf(w, "Timeout:     %s\n", timeout)
}

// maskKey keeps the last four characters of a secret.
func maskKey(k string) string {
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", 8) + k[len(k)-4:]
}

func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "AI source: ollama, openrouter, openai, anthropic, gemini, mock")
	cmd.Flags().String("endpoint", "", "Local model endpoint URL")
	cmd.Flags().String("api-key", "", "API key for remote sources")
	cmd.Flags().String("model", "", "Model name")
	cmd.Flags().String("difficulty", "", "Difficulty: easy, medium, hard")
	addRetryFlags(cmd)
}

func init() {
	addSettingsFlags(settingsSetCmd)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
