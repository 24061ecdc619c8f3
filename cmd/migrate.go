package cmd

import (
	"career_compass_backend/internal/app"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.ForceMigrate = true
		cfg.MigrateOnly = true

		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		application.Close()

		// 迁移完成后直接退出
		fmt.Fprintln(cmd.OutOrStdout(), "database migration finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
