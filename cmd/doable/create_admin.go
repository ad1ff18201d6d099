package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/infrastructure/config"
	"github.com/doable/dashboard/pkg/logger"
)

var adminFlags struct {
	email    string
	password string
	name     string
}

// createAdminCmd bootstraps the first admin. Sign-up through the dashboard
// only ever creates employees.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return createAdmin(cmd.Context(), cmd)
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "admin email (required)")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password (required)")
	createAdminCmd.Flags().StringVar(&adminFlags.name, "name", "", "admin full name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func createAdmin(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "doable"})

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.close(context.Background()) }()

	profile, err := a.authSvc.Register(ctx, ports.SignUpInput{
		Email:    adminFlags.email,
		Password: adminFlags.password,
		FullName: adminFlags.name,
	}, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", adminFlags.email, profile.ID)
	return nil
}
