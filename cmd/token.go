package cmd

import (
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var tokenName string

// Tokens are normally issued by the platform's auth service. This command
// mints one for a local user so the API can be exercised by hand.
var tokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Issue a bearer token for a local user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.JWT.Secret == "" {
			return fmt.Errorf("jwt secret is not configured")
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer logger.Log.Sync()
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		email := strings.TrimSpace(args[0])
		name := tokenName
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		user, err := repository.NewUserRepository(db).FirstOrCreateByEmail(cmd.Context(), email, name)
		if err != nil {
			return err
		}

		token, err := util.GenerateJWT(user.ID, user.UUID, cfg.JWT.Secret, cfg.JWT.ExpireTime)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name for a newly created user")
}
