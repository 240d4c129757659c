package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStopCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop a running job portal server",
		Long:  "Stop a job portal server started with 'jobportal serve', in the foreground or with --detach.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("wait") {
				// Give the server its full drain window plus a little slack.
				wait = viper.GetDuration("server.shutdown_timeout") + 2*time.Second
			}
			return runStop(wait)
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 32*time.Second, "How long to wait for the server to exit")
	return cmd
}

func runStop(wait time.Duration) error {
	pid, err := readPID()
	if err != nil {
		return fmt.Errorf("no running server found (missing PID file at %s)", pidFilePath())
	}

	if !isProcessRunning(pid) {
		removePID()
		return fmt.Errorf("server (PID %d) is not running (stale PID file removed)", pid)
	}

	fmt.Printf("Stopping job portal server (PID %d)...\n", pid)
	if err := stopProcess(pid); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
		if !isProcessRunning(pid) {
			removePID()
			fmt.Println("Server stopped.")
			return nil
		}
	}

	return fmt.Errorf("server (PID %d) still running after %s; it may still be draining connections", pid, wait)
}
