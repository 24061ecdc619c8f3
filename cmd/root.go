package cmd

import (
	"career_compass_backend/internal/config"
	"career_compass_backend/pkg/database"
	"career_compass_backend/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	appName = "career-compass"
)

var (
	// Used for flags.
	configDir string

	rootCmd = &cobra.Command{
		Use:          appName,
		Short:        "career-compass scores assessments and recommends careers",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "configs", "directory holding config.yaml")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(configDir)
}

// openDB is used by the one-shot commands that need the schema but not the
// HTTP stack.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	logger.InitLogger(cfg)
	return database.InitDB(&cfg.Database, cfg.Server.Mode, true)
}
