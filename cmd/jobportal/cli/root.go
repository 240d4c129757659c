package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/manaworks/jobportal/internal/config"
)

var (
	cfgFile    string
	appVersion string // set in Execute, reported by serve and the OpenAPI document
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	appVersion = version
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobportal",
		Short: "Job listing portal with an admin-managed catalogue",
		Long: `jobportal serves a small job board: public browsing and search of job
postings, an admin session API for posting and retiring them, and per-posting
visit statistics. One binary, backed by SQLite, PostgreSQL or MySQL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./jobportal.yaml)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for the SQLite database and PID file (default: ~/.jobportal)")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newOpenAPICmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig() {
	// A .env file is optional; real environment variables win over it.
	_ = godotenv.Load()

	config.ApplyDefaults(viper.GetViper())

	viper.SetEnvPrefix("JOBPORTAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindLegacyEnv()

	// The config file is optional; an explicit --config that fails to load
	// is reported but does not stop commands that need no configuration.
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".jobportal"))
	}
	if path := config.FindFile(cfgFile, dirs...); path != "" {
		if err := config.LoadInto(viper.GetViper(), path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
}

// bindLegacyEnv maps the unprefixed variable names used by earlier
// deployments. The JOBPORTAL_ name is checked first.
func bindLegacyEnv() {
	viper.BindEnv("auth.admin_username", "JOBPORTAL_AUTH_ADMIN_USERNAME", "ADMIN_USERNAME")
	viper.BindEnv("auth.admin_password", "JOBPORTAL_AUTH_ADMIN_PASSWORD", "ADMIN_PASSWORD")
	viper.BindEnv("database.dsn", "JOBPORTAL_DATABASE_DSN", "DATABASE_URL")
}
