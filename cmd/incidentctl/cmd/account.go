package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jrsteele09/citizen-watch/auth"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with email and password. Without --password the password is read
from the first line of standard input.

Examples:
  incidentctl login --email ana@example.com --password 'Secret123'
  echo 'Secret123' | incidentctl login --email ana@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and forget it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authService.Logout(cmd.Context()); err != nil {
			return err
		}
		printer.Success("Signed out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a citizen account",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)

	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (default: read from stdin)")
	_ = loginCmd.MarkFlagRequired("email")

	registerCmd.Flags().String("username", "", "display name")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "password: 8+ characters with upper, lower case and a digit")
	registerCmd.Flags().String("full-name", "", "full name (optional)")
	registerCmd.Flags().String("phone", "", "phone in E.164 form (optional)")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	sess, err := authService.Login(cmd.Context(), auth.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	printer.Success("Signed in as %s (%s)", sess.Username, sess.Role)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	var reg auth.Registration
	reg.Username, _ = cmd.Flags().GetString("username")
	reg.Email, _ = cmd.Flags().GetString("email")
	reg.Password, _ = cmd.Flags().GetString("password")
	reg.FullName, _ = cmd.Flags().GetString("full-name")
	reg.Phone, _ = cmd.Flags().GetString("phone")

	profile, err := authService.Register(cmd.Context(), reg)
	if err != nil {
		return err
	}
	printer.Success("Account %s created, you can now log in", profile.Email)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if _, err := authService.Current(); err != nil {
		return err
	}
	profile, err := profiles.Get(cmd.Context())
	if err != nil {
		return err
	}

	printer.Header("Signed in")
	table := newTable(cmd, []string{"field", "value"})
	table.AddRow("id", profile.ID)
	table.AddRow("username", profile.Username)
	table.AddRow("email", profile.Email)
	table.AddRow("role", string(profile.Role))
	if profile.FullName != "" {
		table.AddRow("name", profile.FullName)
	}
	if profile.DateJoined != "" {
		table.AddRow("joined", profile.DateJoined)
	}
	return table.Render()
}
