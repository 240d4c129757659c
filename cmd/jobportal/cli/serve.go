package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/manaworks/jobportal/internal/config"
	"github.com/manaworks/jobportal/internal/server"
	"github.com/manaworks/jobportal/internal/service"
)

const banner = `
   _       _                      _        _
  (_) ___ | |__  _ __   ___  _ __| |_ __ _| |
  | |/ _ \| '_ \| '_ \ / _ \| '__| __/ _' | |
  | | (_) | |_) | |_) | (_) | |  | || (_| | |
 _/ |\___/|_.__/| .__/ \___/|_|   \__\__,_|_|
|__/            |_|
`

func newServeCmd() *cobra.Command {
	var (
		port   int
		host   string
		noUI   bool
		dev    bool
		detach bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the job portal HTTP server",
		Long:  "Start the HTTP server that exposes the job portal API, the embedded front end and the health probes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if detach {
				return runDetached()
			}
			return runServe(noUI, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8000, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&noUI, "no-ui", false, "Disable the embedded front end")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (debug logging, CORS *)")
	cmd.Flags().BoolVarP(&detach, "detach", "d", false, "Run the server in the background")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(noUI, dev bool) error {
	fmt.Print(banner)
	fmt.Println()

	// A detached server already has stderr pointed at the log file.
	logOut := io.Writer(os.Stderr)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		if f, err := openLogFile(); err == nil {
			defer f.Close()
			logOut = io.MultiWriter(os.Stderr, f)
		}
	}
	logger := newLogger(logOut, dev)

	// 1. Open the database and run migrations
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	logger.Info("store initialized", "driver", st.Driver(), "data_dir", resolveDataDir())

	// 2. Domain services
	svcs, err := newServices(st, logger)
	if err != nil {
		st.Close()
		return err
	}

	janitor := service.NewJanitor(svcs.auth.Sessions(), viper.GetDuration("auth.sweep_interval"), logger)
	janitor.Start()
	defer janitor.Shutdown()

	// 3. HTTP server
	maxBody, err := config.ParseByteSize(viper.GetString("server.max_body_size"))
	if err != nil {
		st.Close()
		return fmt.Errorf("server.max_body_size: %w", err)
	}
	srvCfg := server.Config{
		Host:            viper.GetString("server.host"),
		Port:            viper.GetInt("server.port"),
		ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		CORSOrigins:     viper.GetStringSlice("server.cors_origins"),
		EnableUI:        viper.GetBool("server.ui") && !noUI,
		EnableMCP:       viper.GetBool("mcp.enabled"),
		MaxBodySize:     maxBody,
		LoginRateLimit:  viper.GetInt("auth.login_rate_limit"),
		Version:         versionString(),
	}
	if dev {
		srvCfg.CORSOrigins = []string{"*"}
	}

	srv := server.New(srvCfg, st, svcs.auth, svcs.jobs, svcs.visits, logger)

	if err := writePID(os.Getpid()); err != nil {
		logger.Warn("failed to write PID file", "path", pidFilePath(), "error", err)
	}
	defer removePID()

	display := srvCfg.Host
	if display == "0.0.0.0" || display == "" {
		display = "localhost"
	}
	fmt.Printf("→ Job Portal %s\n", versionString())
	fmt.Printf("→ Listening on http://%s:%d\n", display, srvCfg.Port)
	if srvCfg.EnableUI {
		fmt.Printf("→ Front end:  http://%s:%d/\n", display, srvCfg.Port)
	}
	if srvCfg.EnableMCP {
		fmt.Printf("→ MCP:        http://%s:%d/mcp\n", display, srvCfg.Port)
	}
	fmt.Printf("→ OpenAPI:    http://%s:%d/openapi.json\n", display, srvCfg.Port)
	fmt.Printf("→ Health:     http://%s:%d/healthz\n", display, srvCfg.Port)
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// runDetached re-executes the current binary without --detach in a new
// session, with output appended to the log file.
func runDetached() error {
	if pid, err := readPID(); err == nil && isProcessRunning(pid) {
		return fmt.Errorf("server already running (PID %d)", pid)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	args := detachedChildArgs(os.Args[1:])

	if err := os.MkdirAll(resolveDataDir(), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer out.Close()

	child := exec.Command(exe, args...)
	child.Stdout = out
	child.Stderr = out
	setSysProcAttr(child)
	if err := child.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	fmt.Printf("Job Portal server started in the background (PID %d)\n", child.Process.Pid)
	fmt.Printf("  Logs: %s\n", logFilePath())
	fmt.Println("  Stop with 'jobportal stop'.")
	return child.Process.Release()
}

func openLogFile() (*os.File, error) {
	if err := os.MkdirAll(resolveDataDir(), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// detachedChildArgs returns the arguments for the background server. Plain
// detach flags are dropped, and a trailing --detach=false overrides any
// spelling left behind (--detach=true, -d=1, combined shorthands such as
// -dp 9000) so the child always runs in the foreground.
func detachedChildArgs(args []string) []string {
	out := make([]string, 0, len(args)+1)
	for _, a := range args {
		if a == "--detach" || a == "-d" {
			continue
		}
		out = append(out, a)
	}
	return append(out, "--detach=false")
}
