package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/eventura-app/server/internal/domain/users"
	"github.com/eventura-app/server/internal/storage/postgres"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create or promote an administrator account",
	Long: `Create an administrator account, or attach the ADMIN role to an
existing account with the given username. Flags override the ADMIN_*
environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		username := adminUsername
		if username == "" {
			username = cfg.AdminBootstrap.Username
		}
		password := adminPassword
		if password == "" {
			password = cfg.AdminBootstrap.Password
		}
		email := adminEmail
		if email == "" {
			email = cfg.AdminBootstrap.Email
		}
		if username == "" || password == "" || email == "" {
			return fmt.Errorf("username, password and email are all required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()

		repo, err := postgres.NewRepository(pool)
		if err != nil {
			return fmt.Errorf("repository init failed: %w", err)
		}

		userService := users.NewService(repo.Users(), repo.UserRoles(), repo.UserTx)
		if err := userService.EnsureAdmin(ctx, username, password, email); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin account %q ready\n", username)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email address")
}
