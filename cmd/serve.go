package cmd

import (
	"career_compass_backend/internal/app"

	"github.com/spf13/cobra"
)

var forceMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.ForceMigrate = forceMigrate

		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		return application.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	// serve is the default command
	rootCmd.RunE = serveCmd.RunE

	// 启动时强制执行数据库迁移（即使是 release 模式）
	serveCmd.Flags().BoolVar(&forceMigrate, "migrate", false, "run migrations on start even in release mode")
}
