package cli

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrlokans/lingua/internal/auth"
	"github.com/mrlokans/lingua/internal/config"
	"github.com/mrlokans/lingua/internal/entities"
	"github.com/mrlokans/lingua/internal/entrypoint"
	"github.com/mrlokans/lingua/internal/logging"
)

type createAdminOptions struct {
	email    string
	password string
	name     string
}

func newCreateAdminCommand(envFiles *[]string) *cobra.Command {
	opts := &createAdminOptions{}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long:  "Registers a local account with the admin role in the configured store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFiles...)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := logging.Configure(cfg.Log); err != nil {
				return err
			}
			user, err := createAdmin(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "admin email address")
	cmd.Flags().StringVar(&opts.password, "password", "", "admin password (8 to 72 characters)")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func createAdmin(ctx context.Context, cfg *config.Config, opts *createAdminOptions) (*entities.User, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := entrypoint.OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(ctx); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	service, _, err := entrypoint.NewAuthService(db, cfg)
	if err != nil {
		return nil, err
	}

	user, _, err := service.Register(ctx, auth.RegisterInput{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
		Role:     entities.RoleAdmin,
	})
	if errors.Is(err, auth.ErrUserExists) {
		return nil, fmt.Errorf("%s already has an account", opts.email)
	}
	return user, err
}
