package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/labworks/tracker/internal/model"
	"github.com/labworks/tracker/internal/service"
)

var readPassword = term.ReadPassword // replaced in tests

func AddUserCmd() *cobra.Command {
	var in service.RegisterInput

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user; the password is prompted",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			password, err := promptPassword(out, "Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword(out, "Confirm password: ")
			if err != nil {
				return err
			}
			in.Password = password
			in.Confirm = confirm

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := addUser(a.AuthService, in)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "created %s %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Role, "role", model.RoleStudent, "student or mentor")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// addUser registers on the operator's behalf, so the agreement box counts as ticked.
func addUser(auth *service.AuthService, in service.RegisterInput) (*model.User, error) {
	in.Agree = true

	user, err := auth.Register(in)
	if errors.Is(err, service.ErrEmailAlreadyExists) {
		return nil, fmt.Errorf("%s is already registered", in.Email)
	}
	return user, err
}

func promptPassword(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	pwd, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pwd), nil
}

func DelUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deluser <email>",
		Short: "Delete a user with their goals and activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := deleteUser(a.UserService, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
}

func deleteUser(users *service.UserService, email string) (*model.User, error) {
	user, err := users.ByEmail(email)
	if errors.Is(err, service.ErrUserNotFound) {
		return nil, fmt.Errorf("no user with email %s", email)
	}
	if err != nil {
		return nil, err
	}

	err = users.Remove(user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
