package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wordbook/pkg/models"
)

// requireAdmin is requireSession restricted to administrators.
func (a *App) requireAdmin(ctx context.Context) (context.Context, error) {
	ctx, sess, err := a.requireSession(ctx)
	if err != nil {
		return ctx, err
	}
	if sess.User.Role != models.RoleAdmin {
		return ctx, fmt.Errorf("user management requires the admin role, you are %s", sess.User.Role)
	}
	return ctx, nil
}

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User administration (admin only)",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := app.requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(app.out, app.client.GetUsers(ctx))
			return nil
		},
	}

	var add credentials
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := app.requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.fillCredentials(&add); err != nil {
				return err
			}
			u, err := app.client.CreateUser(ctx, models.RegisterRequest{
				Username: add.username,
				Password: add.password,
				Email:    add.email,
				Role:     models.Role(add.role),
			})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			app.printf("Created user %d %s (%s)\n", u.ID, u.Username, u.Role)
			return nil
		},
	}
	addCredentialFlags(addCmd, &add)
	addCmd.Flags().StringVarP(&add.email, "email", "e", "", "email address")

	var upd credentials
	updateCmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Change a user's name, email, role or password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := app.requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			update := models.UserUpdate{
				Username: upd.username,
				Email:    upd.email,
				Password: upd.password,
			}
			if cmd.Flags().Changed("role") {
				update.Role = models.Role(upd.role)
			}
			u, err := app.client.UpdateUser(ctx, id, update)
			if err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
			app.printf("Updated user %d %s (%s)\n", u.ID, u.Username, u.Role)
			return nil
		},
	}
	updateCmd.Flags().StringVarP(&upd.username, "username", "u", "", "new username")
	updateCmd.Flags().StringVarP(&upd.email, "email", "e", "", "new email")
	updateCmd.Flags().StringVarP(&upd.password, "password", "p", "", "new password")
	updateCmd.Flags().StringVarP(&upd.role, "role", "r", "", "new role")

	deleteCmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := app.requireAdmin(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.client.DeleteUser(ctx, id); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
			app.println("Deleted.")
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd)
	return cmd
}
