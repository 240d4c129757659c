package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manaworks/jobportal/internal/service"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the admin identity",
		Long:  "Hash admin passwords for configuration and list the admin records stored in the database.",
	}

	cmd.AddCommand(newAdminHashPasswordCmd())
	cmd.AddCommand(newAdminListCmd())

	return cmd
}

// ---------- admin hash-password ----------

func newAdminHashPasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password for auth.admin_password_hash",
		Example: `  jobportal admin hash-password            # prompts for the password
  jobportal admin hash-password --password secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminHashPassword(password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password to hash (prompted if omitted)")

	return cmd
}

func runAdminHashPassword(password string) error {
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		password = string(pwBytes)

		fmt.Fprint(os.Stderr, "Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		fmt.Fprintln(os.Stderr)

		if password != string(confirmBytes) {
			return fmt.Errorf("passwords do not match")
		}
	}

	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List admin records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(jsonOutput bool) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	admins, err := st.ListAdmins(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(admins)
	}

	if len(admins) == 0 {
		fmt.Println("No admin records yet. One is created on the first successful login.")
		return nil
	}

	fmt.Printf("%-6s %-20s %-32s %-20s\n", "ID", "USERNAME", "EMAIL", "CREATED")
	fmt.Printf("%-6s %-20s %-32s %-20s\n", "--", "--------", "-----", "-------")
	for _, a := range admins {
		fmt.Printf("%-6d %-20s %-32s %-20s\n", a.ID, a.Username, a.Email, a.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
