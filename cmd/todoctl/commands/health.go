package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health command
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := cmd.Flags().GetString("server")
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Get(strings.TrimRight(server, "/") + "/healthz")
			if err != nil {
				return fmt.Errorf("failed to reach server: %w", err)
			}
			defer func() {
				_ = resp.Body.Close()
			}()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
			}

			var body struct {
				Status    string `json:"status"`
				Timestamp string `json:"timestamp"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("failed to decode health response: %w", err)
			}

			fmt.Printf("✓ Server is %s (%s)\n", body.Status, body.Timestamp)
			return nil
		},
	}
}
