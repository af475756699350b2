package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/spf13/cobra"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show incident density by map cell",
	Args:  cobra.NoArgs,
	RunE:  runHeatmap,
}

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List incidents around a point",
	Long: `List incidents within --radius kilometres of a point, closest first.

Example:
  incidentctl nearby --lat 19.4326 --lng -99.1332 --radius 2`,
	Args: cobra.NoArgs,
	RunE: runNearby,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise incidents by type, status and day",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(heatmapCmd, nearbyCmd, statsCmd)

	heatmapCmd.Flags().Int("top", 20, "show only the densest cells")

	addFilterFlags(nearbyCmd)
	nearbyCmd.Flags().Float64("lat", 0, "latitude")
	nearbyCmd.Flags().Float64("lng", 0, "longitude")
	nearbyCmd.Flags().Float64("radius", 1, "radius in kilometres")
	_ = nearbyCmd.MarkFlagRequired("lat")
	_ = nearbyCmd.MarkFlagRequired("lng")

	addFilterFlags(statsCmd)
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	points, err := incidentsSvc.Heatmap(cmd.Context())
	if err != nil {
		return err
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 && len(points) > top {
		points = points[:top]
	}
	if len(points) == 0 {
		printer.Info("No open incidents")
		return nil
	}

	table := newTable(cmd, []string{"location", "incidents"})
	for _, p := range points {
		table.AddRow(formatLocation(p.Latitude, p.Longitude), strconv.FormatFloat(p.Weight, 'f', -1, 64))
	}
	return table.Render()
}

func runNearby(cmd *cobra.Command, args []string) error {
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")
	radius, _ := cmd.Flags().GetFloat64("radius")
	if radius <= 0 {
		return fmt.Errorf("--radius must be positive")
	}

	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	list, err := incidentsSvc.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	near := incidents.Nearby(list, lat, lng, radius)
	if len(near) == 0 {
		printer.Info("No incidents within %.1f km", radius)
		return nil
	}
	table := newTable(cmd, []string{"id", "type", "status", "distance", "description"})
	for _, n := range near {
		table.AddRow(
			n.ID,
			n.Type.Label(),
			printer.StatusBadge(string(n.Status)),
			fmt.Sprintf("%.2f km", n.DistanceKm),
			truncate(n.Description, 48),
		)
	}
	return table.Render()
}

func runStats(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	list, err := incidentsSvc.List(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printer.Info("No incidents")
		return nil
	}

	printer.Header(fmt.Sprintf("By type (%d incidents, %d open)", len(list), len(incidents.Open(list))))
	byType := newTable(cmd, []string{"type", "count"})
	for _, c := range incidents.CountByType(list) {
		byType.AddRow(c.Key.Label(), strconv.Itoa(c.Count))
	}
	if err := byType.Render(); err != nil {
		return err
	}

	printer.Header("By status")
	byStatus := newTable(cmd, []string{"status", "count"})
	for _, c := range incidents.CountByStatus(list) {
		byStatus.AddRow(printer.StatusBadge(string(c.Key)), strconv.Itoa(c.Count))
	}
	if err := byStatus.Render(); err != nil {
		return err
	}

	printer.Header("By day")
	byDay := newTable(cmd, []string{"day", "count"})
	for _, d := range incidents.GroupByDay(list, time.Local) {
		byDay.AddRow(d.Day.Format("2006-01-02"), strconv.Itoa(d.Count))
	}
	return byDay.Render()
}
