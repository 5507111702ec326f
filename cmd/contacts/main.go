// Command contacts runs the contacts web application and its maintenance
// commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contacts/internal/config"
	"github.com/goliatone/go-contacts/internal/logging"
)

var (
	configPath string
	envFile    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "contacts",
	Short: "A hypermedia contacts application",
	Long: `contacts serves a server-rendered contacts manager with a JSON API
under /api/v1.

Configuration is read from --config (YAML), then .env, then the environment:
  DATABASE_URL            SQLite path or postgres:// URL
  CONTACTS_ADDR           listen address
  CONTACTS_LOG_LEVEL      debug, info, warn or error
  CONTACTS_FLASH_SECRET   flash cookie signing secret
  CONTACTS_THEME_VARIANT  light or dark`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		logCfg := logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development}
		if verbose {
			logCfg.Level = "debug"
		}
		logger, err = logging.New(logCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "contacts.yaml", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, addCmd, seedCmd, openapiCmd)
}

func loadConfig() (*config.Config, error) {
	loaded, err := config.LoadLayered(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	loaded.ApplyEnv()
	if err := loaded.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
