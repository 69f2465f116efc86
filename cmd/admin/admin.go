package admin

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lavosystem/lavo-go/internal/conf"
	"github.com/lavosystem/lavo-go/internal/datastore"
	"github.com/lavosystem/lavo-go/internal/errors"
	"github.com/lavosystem/lavo-go/internal/security"
)

// Command creates the admin command, which bootstraps the first
// administrator account.
func Command(settings *conf.Settings) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the initial administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAdmin(settings, name, email, password)
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "Display name of the admin account")
	cmd.Flags().StringVar(&email, "email", "", "Email of the admin account")
	cmd.Flags().StringVar(&password, "password", "", "Password of the admin account")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func createAdmin(settings *conf.Settings, name, email, password string) error {
	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			slog.Warn("Failed to close datastore", "error", err)
		}
	}()

	if existing, err := ds.FirstUserByRole(datastore.RoleAdmin); err == nil {
		return fmt.Errorf("an administrator already exists: %s", existing.Email)
	} else if errors.Category(err) != errors.CategoryNotFound {
		return err
	}

	hash, err := security.HashPassword(password, settings.Security.BcryptCost)
	if err != nil {
		return err
	}

	user := datastore.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     datastore.RoleAdmin,
	}
	if err := ds.CreateUser(&user); err != nil {
		return err
	}

	fmt.Printf("Administrator account created: %s (id %d)\n", user.Email, user.ID)
	return nil
}
