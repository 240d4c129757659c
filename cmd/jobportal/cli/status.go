package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check if the job portal server is running",
		Long:  "Check the status of the job portal server: process state, HTTP readiness and database reachability.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

// readiness mirrors the /readyz response body.
type readiness struct {
	Status   string `json:"status"`
	Driver   string `json:"driver"`
	Database string `json:"database"`
	Sessions int    `json:"sessions"`
}

func runStatus() error {
	pid, err := readPID()
	if err != nil {
		fmt.Println("Server is not running (no PID file found).")
		return nil
	}

	if !isProcessRunning(pid) {
		removePID()
		fmt.Println("Server is not running (stale PID file removed).")
		return nil
	}

	// Process is alive; ask the server whether it is ready.
	port := viper.GetInt("server.port")
	host := viper.GetString("server.host")
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}

	readyAddr := fmt.Sprintf("http://%s:%d/readyz", host, port)
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(readyAddr)
	if err != nil {
		fmt.Printf("Server process is running (PID %d) but not responding to HTTP.\n", pid)
		fmt.Printf("  Logs: %s\n", logFilePath())
		return nil
	}
	defer resp.Body.Close()

	var ready readiness
	json.NewDecoder(resp.Body).Decode(&ready)

	fmt.Printf("Server is running (PID %d)\n", pid)
	fmt.Printf("  Ready:    %s (%d %s)\n", readyAddr, resp.StatusCode, ready.Status)
	if ready.Driver != "" {
		fmt.Printf("  Database: %s (%s)\n", ready.Database, ready.Driver)
		fmt.Printf("  Sessions: %d active\n", ready.Sessions)
	}
	fmt.Printf("  Logs:     %s\n", logFilePath())
	return nil
}
