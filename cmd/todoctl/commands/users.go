package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUserCmd creates the user command group
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserGetCmd())

	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			var user userResponse
			body := map[string]string{"email": email, "name": name}
			if err := callAPI(cmd, "POST", "/api/v1/users", "", body, &user); err != nil {
				return err
			}

			fmt.Printf("✓ User created\n")
			fmt.Printf("ID:    %s\n", user.ID)
			fmt.Printf("Email: %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func newUserGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Look up a user by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var user userResponse
			if err := callAPI(cmd, "GET", "/api/v1/users/"+args[0], "", nil, &user); err != nil {
				return err
			}

			fmt.Printf("ID:    %s\n", user.ID)
			fmt.Printf("Email: %s\n", user.Email)
			if user.Name != "" {
				fmt.Printf("Name:  %s\n", user.Name)
			}
			return nil
		},
	}
}
