package cmd

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List incidents",
	Long: `List incidents, newest first. Citizens see their own reports, administrators see all.

Examples:
  incidentctl list
  incidentctl list --status reported --since 24h
  incidentctl list --type robbery --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one incident",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd)

	addFilterFlags(listCmd)
	listCmd.Flags().Bool("json", false, "output as JSON")
	showCmd.Flags().Bool("json", false, "output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	list, err := incidentsSvc.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd, list)
	}
	if len(list) == 0 {
		printer.Info("No incidents")
		return nil
	}
	return renderIncidents(cmd, list)
}

func runShow(cmd *cobra.Command, args []string) error {
	incident, err := incidentsSvc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd, incident)
	}

	printer.Header("Incident " + incident.ID)
	table := newTable(cmd, []string{"field", "value"})
	table.AddRow("type", incident.Type.Label())
	table.AddRow("status", printer.StatusBadge(string(incident.Status)))
	table.AddRow("description", incident.Description)
	table.AddRow("location", formatLocation(incident.Latitude, incident.Longitude))
	if incident.Address != "" {
		table.AddRow("address", incident.Address)
	}
	if incident.Attachment != nil {
		table.AddRow("attachment", incident.Attachment.Filename)
	}
	table.AddRow("reported", incident.CreatedAt.Local().Format(timeLayout))
	table.AddRow("updated", incident.UpdatedAt.Local().Format(timeLayout))
	return table.Render()
}
