package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/internal/user"
	"github.com/frahmantamala/order-admin/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	seedAdminUsername string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the collections and a management user",
	Long: `Create missing collection documents and make sure a management
user exists so the admin UI can be logged into. --clear empties both
collections first.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		app, err := newApp(cfg, logger.LoggerWrapper())
		if err != nil {
			log.Fatalf("failed to init storage: %v", err)
		}
		defer app.Close()

		if err := seed(cmd.Context(), app, clearData, seedAdminUsername, seedAdminPassword); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

func seed(ctx context.Context, app *App, clear bool, username, password string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if clear {
		if err := app.Users.Reset(ctx); err != nil {
			return fmt.Errorf("failed to clear users: %w", err)
		}
		if err := app.Orders.Reset(ctx); err != nil {
			return fmt.Errorf("failed to clear orders: %w", err)
		}
		fmt.Println("Cleared users and orders")
	}

	for _, store := range []interface {
		Name() string
		EnsureExists(context.Context) (bool, error)
	}{app.Users, app.Orders} {
		created, err := store.EnsureExists(ctx)
		if err != nil {
			return fmt.Errorf("failed to create collection %s: %w", store.Name(), err)
		}
		if created {
			fmt.Println("Created collection:", store.Name())
		}
	}

	existing, err := app.UserService.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if !existing.IsManagement() {
			dept := user.DepartmentManagement
			if _, err := app.UserService.Update(ctx, user.UserPatch{ID: &existing.ID, Department: &dept}); err != nil {
				return fmt.Errorf("failed to promote %s: %w", username, err)
			}
			fmt.Println("Moved existing user to management:", username)
			return nil
		}
		fmt.Println("management user already exists:", username)
		return nil
	case !errors.Is(err, internal.ErrUserNotFound):
		return fmt.Errorf("failed to look up %s: %w", username, err)
	}

	_, err = app.UserService.Create(ctx, user.CreateUserRequest{
		Username:        username,
		Password:        password,
		Name:            "Sistem",
		Surname:         "Yöneticisi",
		Role:            "GENEL MÜDÜR",
		Department:      user.DepartmentManagement,
		Admin:           true,
		SystemAuthority: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", username, err)
	}
	fmt.Println("Seeded management user:", username)
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminUsername, "admin-username", "admin", "username of the management user")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "admin123", "password of the management user")
}
