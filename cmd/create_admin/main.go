package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/config"
	"studioworks/internal/database"
	"studioworks/internal/logging"
	"studioworks/internal/services"
	"studioworks/internal/util"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

// rootCmd creates or updates a dashboard account
var rootCmd = &cobra.Command{
	Use:   "create_admin",
	Short: "Create a dashboard admin account",
	Long: `Create an active user and add it to the admin allow-list.

Running the command again for an existing email resets the password
and makes sure the account is allow-listed.`,
	RunE: runCreateAdmin,
}

func init() {
	rootCmd.Flags().StringVar(&adminEmail, "email", "", "admin email address (required)")
	rootCmd.Flags().StringVar(&adminPassword, "password", "", "admin password, 8 characters or more (required)")
	rootCmd.Flags().StringVar(&adminName, "name", "", "display name")
	_ = rootCmd.MarkFlagRequired("email")
	_ = rootCmd.MarkFlagRequired("password")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.App.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := database.Init(&cfg.Database, logger.Named("database")); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = database.Close() }()

	tokens := util.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.TokenTTL())
	client := backend.NewClient(database.GetDB(), tokens, nil, logger.Named("backend"))
	auth := services.NewAuthService(client, logger.Named("auth"))

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	user, err := auth.CreateAdmin(ctx, services.AdminInput{
		Email:    adminEmail,
		Password: adminPassword,
		FullName: adminName,
	})
	if err != nil {
		logger.Error("create admin failed", zap.Error(err))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Admin ready: %s (id %d)\n", user.Email, user.ID)
	return nil
}
