package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow new and changed incidents",
	Long: `Poll the incident list and print incidents as they are reported or change status.
Stops on Ctrl-C, or when the session can no longer be refreshed.

Example:
  incidentctl watch --interval 5s --status reported`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addFilterFlags(watchCmd)
	watchCmd.Flags().Duration("interval", 0, "poll interval (default $POLL_INTERVAL)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = cfg.GetPollInterval()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := incidents.NewWatcher(incidentsSvc,
		incidents.WithInterval(interval),
		incidents.WithFilter(filter),
		incidents.WithWatcherLogger(logger),
	)
	printer.Info("Watching incidents every %s, Ctrl-C to stop", interval)

	err = watcher.Run(ctx, func(u incidents.Update) {
		if u.Initial {
			if len(u.Added) == 0 {
				printer.Info("No incidents yet")
				return
			}
			printer.Header("Current incidents")
			if err := renderIncidents(cmd, u.Added); err != nil {
				logger.Warn().Err(err).Msg("Failed to render incidents")
			}
			return
		}
		for _, i := range u.Added {
			printer.Success("%s new %s: %s", time.Now().Format("15:04:05"), i.Type.Label(), truncate(i.Description, 60))
		}
		for _, i := range u.Changed {
			printer.Info("%s %s is now %s", time.Now().Format("15:04:05"), i.ID, printer.StatusBadge(string(i.Status)))
		}
		for _, i := range u.Removed {
			printer.Info("%s %s is no longer listed", time.Now().Format("15:04:05"), i.ID)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
