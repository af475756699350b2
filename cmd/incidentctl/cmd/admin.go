package cmd

import (
	"fmt"
	"os"

	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move an incident through review (administrators)",
	Long: `Set an incident's status to reported, in_review, resolved or dismissed.

Example:
  incidentctl status 3f2a... resolved`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an incident (administrators)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := incidentsSvc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		printer.Success("Incident %s deleted", args[0])
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export incidents as CSV",
	Long: `Write the incidents matching the filters as CSV, to --out or standard output.

Example:
  incidentctl export --since 720h --out last-month.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts (administrators)",
	Args:  cobra.NoArgs,
	RunE:  runUsers,
}

var blockCmd = &cobra.Command{
	Use:   "block <user-id>",
	Short: "Block an account from signing in (administrators)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setBlocked(cmd, args[0], true)
	},
}

var unblockCmd = &cobra.Command{
	Use:   "unblock <user-id>",
	Short: "Let a blocked account sign in again (administrators)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setBlocked(cmd, args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, deleteCmd, exportCmd, usersCmd, blockCmd, unblockCmd)

	usersCmd.Flags().Int("offset", 0, "skip this many accounts")
	usersCmd.Flags().Int("limit", 0, "at most this many accounts")

	addFilterFlags(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "output file (default: standard output)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	status, err := incidents.ParseStatus(args[1])
	if err != nil {
		return err
	}
	updated, err := incidentsSvc.UpdateStatus(cmd.Context(), args[0], status)
	if err != nil {
		return err
	}
	printer.Success("Incident %s is now %s", updated.ID, printer.StatusBadge(string(updated.Status)))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	list, err := incidentsSvc.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	path, _ := cmd.Flags().GetString("out")
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	if err := incidents.WriteCSV(out, list); err != nil {
		return err
	}
	if path != "" {
		printer.Success("Exported %d incidents to %s", len(list), path)
	}
	return nil
}

func runUsers(cmd *cobra.Command, args []string) error {
	offset, _ := cmd.Flags().GetInt("offset")
	limit, _ := cmd.Flags().GetInt("limit")
	list, err := accounts.List(cmd.Context(), offset, limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printer.Info("No accounts")
		return nil
	}

	table := newTable(cmd, []string{"id", "username", "email", "role", "joined", "state"})
	for _, p := range list {
		state := "active"
		if p.Blocked {
			state = "blocked"
		}
		table.AddRow(p.ID, p.Username, p.Email, string(p.Role), p.DateJoined, state)
	}
	return table.Render()
}

func setBlocked(cmd *cobra.Command, userID string, blocked bool) error {
	p, err := accounts.SetBlocked(cmd.Context(), userID, blocked)
	if err != nil {
		return err
	}
	if p.Blocked {
		printer.Success("%s is blocked", p.Email)
	} else {
		printer.Success("%s can sign in again", p.Email)
	}
	return nil
}
