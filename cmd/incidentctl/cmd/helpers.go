package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/jrsteele09/citizen-watch/internal/output"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

func newTable(cmd *cobra.Command, headers []string) *output.Table {
	return output.NewTable(cmd.OutOrStdout(), headers)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseSince accepts a look-back duration ("24h") or an RFC 3339 time.
func parseSince(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(-d), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--since %q: want a duration like 24h or an RFC 3339 time", value)
	}
	return t, nil
}

// addFilterFlags registers --status, --type, --since and --limit on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "", "only incidents with this status (reported, in_review, resolved, dismissed)")
	cmd.Flags().String("type", "", "only incidents of this type")
	cmd.Flags().String("since", "", "only incidents reported after this duration ago or RFC 3339 time")
	cmd.Flags().Int("limit", 0, "at most this many incidents")
}

func filterFromFlags(cmd *cobra.Command) (incidents.Filter, error) {
	var filter incidents.Filter
	var err error
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		if filter.Status, err = incidents.ParseStatus(v); err != nil {
			return filter, err
		}
	}
	if v, _ := cmd.Flags().GetString("type"); v != "" {
		if filter.Type, err = incidents.ParseType(v); err != nil {
			return filter, err
		}
	}
	since, _ := cmd.Flags().GetString("since")
	if filter.Since, err = parseSince(since, time.Now()); err != nil {
		return filter, err
	}
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	return filter, nil
}

func renderIncidents(cmd *cobra.Command, list []incidents.Incident) error {
	table := newTable(cmd, []string{"id", "type", "status", "reported", "location", "description"})
	for _, i := range list {
		table.AddRow(
			i.ID,
			i.Type.Label(),
			printer.StatusBadge(string(i.Status)),
			i.CreatedAt.Local().Format(timeLayout),
			formatLocation(i.Latitude, i.Longitude),
			truncate(i.Description, 48),
		)
	}
	return table.Render()
}

func formatLocation(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + ", " + strconv.FormatFloat(lng, 'f', 4, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
