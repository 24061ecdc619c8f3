package cmd

import (
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/service"
	"career_compass_backend/pkg/logger"
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Import the career catalog from an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer logger.Log.Sync()
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		svc := service.NewCatalogService(db, repository.NewCatalogRepository(db))
		result, err := svc.ImportWorkbook(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "processed: %d, created: %d, updated: %d, skipped: %d\n",
			result.TotalProcessed, result.Created, result.Updated, result.Skipped)
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "  %s\n", msg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
