package main

import (
	"fmt"
	"os"

	"github.com/remindful/todo-api/cmd/todoctl/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "todoctl",
		Short: "Admin tool for the Remindful todo API",
		Long:  "CLI tool for checking a running Remindful server and managing users and todos over its HTTP API",
	}

	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "Base URL of the API server")

	rootCmd.AddCommand(commands.NewHealthCmd())
	rootCmd.AddCommand(commands.NewUserCmd())
	rootCmd.AddCommand(commands.NewTodosCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
