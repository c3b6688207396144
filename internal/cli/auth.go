package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wordbook/internal/api"
	"github.com/example/wordbook/internal/session"
	"github.com/example/wordbook/pkg/models"
)

type credentials struct {
	username string
	password string
	email    string
	role     string
}

func (a *App) fillCredentials(c *credentials) error {
	var err error
	if c.username == "" {
		if c.username, err = a.prompt("Username"); err != nil {
			return err
		}
	}
	if c.password == "" {
		if c.password, err = a.promptPassword(); err != nil {
			return err
		}
	}
	return nil
}

func addCredentialFlags(cmd *cobra.Command, c *credentials) {
	cmd.Flags().StringVarP(&c.username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&c.password, "password", "p", "", "password (prompted when empty)")
	cmd.Flags().StringVarP(&c.role, "role", "r", string(models.RoleStudent), "student, teacher or admin")
}

// authFailure turns a rejected login into an error carrying the backend message.
func authFailure(action string, err error) error {
	var ae *api.AuthError
	if errors.As(err, &ae) {
		return fmt.Errorf("%s failed: %s", action, ae.Message)
	}
	return fmt.Errorf("%s failed: %w", action, err)
}

func newLoginCmd(app *App) *cobra.Command {
	var c credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and show the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.fillCredentials(&c); err != nil {
				return err
			}
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			sess, err := mgr.Login(cmd.Context(), session.DefaultKey, c.username, c.password, models.Role(c.role))
			if err != nil {
				return authFailure("login", err)
			}
			app.printf("Logged in as %s (%s)\n\n", sess.User.Username, sess.User.Role)
			return app.showDashboard(cmd, sess.User.ID)
		},
	}
	addCredentialFlags(cmd, &c)
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var c credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.fillCredentials(&c); err != nil {
				return err
			}
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			sess, err := mgr.Register(cmd.Context(), session.DefaultKey, models.RegisterRequest{
				Username: c.username,
				Password: c.password,
				Email:    c.email,
				Role:     models.Role(c.role),
			})
			if err != nil {
				return authFailure("registration", err)
			}
			app.printf("Welcome, %s!\n", sess.User.Username)
			return nil
		},
	}
	addCredentialFlags(cmd, &c)
	cmd.Flags().StringVarP(&c.email, "email", "e", "", "email address")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			if err := mgr.Logout(cmd.Context(), session.DefaultKey); err != nil {
				return err
			}
			app.println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			u := sess.User
			app.printf("%s (id %d, %s)\n", u.Username, u.ID, u.Role)
			if u.Email != "" {
				app.printf("email: %s\n", u.Email)
			}
			app.printf("logged in since %s\n", sess.CreatedAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func (a *App) showDashboard(cmd *cobra.Command, userID int64) error {
	data, err := a.client.GetDashboardData(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	printDashboard(a.out, data)
	return nil
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Today's overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			return app.showDashboard(cmd, sess.User.ID)
		},
	}
}
