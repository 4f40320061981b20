// Package cli implements lmsctl, the operator command line for the
// learning platform: schema migrations, account bootstrap, token minting
// and on-demand payment reconciliation.
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iliyamo/learning-platform/internal/config"
	"github.com/iliyamo/learning-platform/internal/database"
	"github.com/iliyamo/learning-platform/internal/logger"
)

var (
	// Global flags
	envFile    string
	jsonOutput bool
)

// env is everything a command needs once configuration is loaded.
type env struct {
	cfg config.Config
	db  *sql.DB
	log zerolog.Logger
}

// openEnv is swapped in tests so commands can run without MySQL.
var openEnv = func(ctx context.Context) (*env, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, db: db, log: logger.New(cfg.LogLevel, "console")}, nil
}

func withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	if e.db != nil {
		defer e.db.Close()
	}
	return fn(ctx, e)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lmsctl",
	Short: "Operator tooling for the learning platform",
	Long: `lmsctl manages a learning platform deployment from the shell.

It reads the same environment (and optional .env file) as the API server:
  - apply or roll back schema migrations
  - create accounts and grant staff rights
  - mint access tokens for testing
  - reconcile pending card payments against the gateway`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Extra env file loaded before the environment")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// printResult writes v as indented JSON when --json is set, otherwise the
// human readable text.
func printResult(w io.Writer, v any, text string) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
