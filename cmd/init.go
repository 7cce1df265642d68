package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the local profile without the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		name = strings.TrimSpace(name)
		if name == "" {
			return errors.New("--name is required")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		err = e.store.UserRepo().Create(cmd.Context(), quiz.User{Name: name, CreatedAt: time.Now().UTC()})
		if errors.Is(err, store.ErrUserExists) {
			u, _ := e.store.UserRepo().Get(cmd.Context())
			if u != nil {
				return fmt.Errorf("already initialized as %q", u.Name)
			}
			return err
		}
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! Run `quizcraft` to start.\n", name)
		return nil
	},
}

func init() {
	initCmd.Flags().String("name", "", "Your name")
}
