package cmd

import (
	"fmt"

	"github.com/quizcraft/quizcraft/internal/app"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the interactive quiz app (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	deps := e.deps()
	user, err := deps.Users.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	e.log.Info("starting tui", "onboarded", user != nil)
	return app.Run(deps, user)
}
