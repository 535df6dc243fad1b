package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type todoResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	RemindAt string `json:"remind_at"`
}

type todoListResponse struct {
	Todos      []todoResponse `json:"todos"`
	Page       int            `json:"page"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// NewTodosCmd creates the todos command group
func NewTodosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Manage todos",
	}

	cmd.PersistentFlags().String("user", "", "Acting user ID (required)")

	cmd.AddCommand(newTodosListCmd())
	cmd.AddCommand(newTodosCreateCmd())
	cmd.AddCommand(newTodosCompleteCmd())

	return cmd
}

func actingUser(cmd *cobra.Command) (string, error) {
	user, err := cmd.Flags().GetString("user")
	if err != nil {
		return "", err
	}
	if user == "" {
		return "", fmt.Errorf("--user is required")
	}
	return user, nil
}

func newTodosListCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos visible to the acting user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actingUser(cmd)
			if err != nil {
				return err
			}

			var list todoListResponse
			path := fmt.Sprintf("/api/v1/todos?page=%d&limit=%d", page, limit)
			if err := callAPI(cmd, "GET", path, user, nil, &list); err != nil {
				return err
			}

			if list.Total == 0 {
				fmt.Println("No todos")
				return nil
			}

			for _, todo := range list.Todos {
				line := fmt.Sprintf("%s  [%s]  %s", todo.ID, todo.Status, todo.Title)
				if todo.RemindAt != "" {
					line += "  (remind at " + todo.RemindAt + ")"
				}
				fmt.Println(line)
			}
			fmt.Printf("\nPage %d of %d (%d total)\n", list.Page, list.TotalPages, list.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")

	return cmd
}

func newTodosCreateCmd() *cobra.Command {
	var title, description, remindAt string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a todo",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actingUser(cmd)
			if err != nil {
				return err
			}
			if title == "" {
				return fmt.Errorf("--title is required")
			}

			body := map[string]string{"title": title}
			if description != "" {
				body["description"] = description
			}
			if remindAt != "" {
				body["remind_at"] = remindAt
			}

			var todo todoResponse
			if err := callAPI(cmd, "POST", "/api/v1/todos", user, body, &todo); err != nil {
				return err
			}

			fmt.Printf("✓ Todo created: %s\n", todo.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Todo title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Todo description")
	cmd.Flags().StringVar(&remindAt, "remind-at", "", "Reminder time (RFC 3339, e.g. 2026-01-02T15:04:05Z)")

	return cmd
}

func newTodosCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <todo-id>",
		Short: "Mark a todo done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := actingUser(cmd)
			if err != nil {
				return err
			}

			var todo todoResponse
			if err := callAPI(cmd, "POST", "/api/v1/todos/"+args[0]+"/complete", user, nil, &todo); err != nil {
				return err
			}

			fmt.Printf("✓ Todo %s is %s\n", todo.ID, todo.Status)
			return nil
		},
	}
}
