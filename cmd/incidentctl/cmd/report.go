package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report an incident",
	Long: `Report an incident at a location, optionally with a photo or document.

Examples:
  incidentctl report --type robbery --description "Phone snatched" --lat 19.4326 --lng -99.1332
  incidentctl report --type vandalism --description "Broken lamp" --lat 19.43 --lng -99.13 --attach lamp.jpg`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("type", "", "incident type (robbery, assault, vandalism, accident, suspicious_activity, other)")
	reportCmd.Flags().String("description", "", "what happened")
	reportCmd.Flags().Float64("lat", 0, "latitude")
	reportCmd.Flags().Float64("lng", 0, "longitude")
	reportCmd.Flags().String("address", "", "street address (optional)")
	reportCmd.Flags().String("attach", "", "file to attach (optional)")
	_ = reportCmd.MarkFlagRequired("type")
	_ = reportCmd.MarkFlagRequired("description")
	_ = reportCmd.MarkFlagRequired("lat")
	_ = reportCmd.MarkFlagRequired("lng")
}

func runReport(cmd *cobra.Command, args []string) error {
	typ, _ := cmd.Flags().GetString("type")
	t, err := incidents.ParseType(typ)
	if err != nil {
		return err
	}

	report := incidents.Report{Type: t}
	report.Description, _ = cmd.Flags().GetString("description")
	report.Latitude, _ = cmd.Flags().GetFloat64("lat")
	report.Longitude, _ = cmd.Flags().GetFloat64("lng")
	report.Address, _ = cmd.Flags().GetString("address")

	var attachment *incidents.Attachment
	if path, _ := cmd.Flags().GetString("attach"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening attachment: %w", err)
		}
		defer f.Close()
		attachment = &incidents.Attachment{
			Filename:    filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Content:     f,
		}
	}

	created, err := incidentsSvc.Report(cmd.Context(), report, attachment)
	if err != nil {
		return err
	}
	printer.Success("Incident %s reported (%s)", created.ID, created.Status)
	return nil
}
