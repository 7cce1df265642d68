package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quizcraft/quizcraft/internal/logger"
	"github.com/quizcraft/quizcraft/internal/quizgen"
	"github.com/quizcraft/quizcraft/internal/screen"
	"github.com/quizcraft/quizcraft/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "quizcraft",
	Short:        "AI-generated quizzes in your terminal",
	Long:         "Quizcraft generates multiple-choice quizzes on any subject with a local or remote language model, and keeps score.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZCRAFT_DB env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Path to the diagnostic log (overrides QUIZCRAFT_LOG env var)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log at debug level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZCRAFT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveLogPath returns the log path using --log-file, then QUIZCRAFT_LOG,
// then a file next to the database.
func resolveLogPath(cmd *cobra.Command, dbPath string) string {
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		return p
	}
	if p := os.Getenv("QUIZCRAFT_LOG"); p != "" {
		return p
	}
	return filepath.Join(filepath.Dir(dbPath), "quizcraft.log")
}

// env bundles what every data command needs.
type env struct {
	store *store.Store
	log   *logger.Logger
}

func (e *env) Close() {
	e.log.Sync()
	e.store.Close()
}

// deps builds the repositories and the quiz generator for the TUI and
// the generate command.
func (e *env) deps() screen.Deps {
	factory := quizgen.NewProviderFactory(e.store.EventRepo(), e.log)
	return screen.Deps{
		Users:     e.store.UserRepo(),
		Settings:  e.store.SettingsRepo(),
		Quizzes:   e.store.QuizRepo(),
		Attempts:  e.store.AttemptRepo(),
		Generator: quizgen.New(factory, e.store.QuizRepo(), quizgen.DefaultConfig(), e.log),
	}
}

// openEnv opens the store and the diagnostic logger. A logger that cannot
// be opened is replaced by a no-op one with a warning.
func openEnv(cmd *cobra.Command) (*env, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	mode := "production"
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		mode = "debug"
	}
	logPath := resolveLogPath(cmd, dbPath)
	log, err := logger.New(mode, logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		log = logger.NewNop()
	}
	log.Debug("store opened", "db", dbPath, "log", logPath)

	return &env{store: st, log: log}, nil
}
