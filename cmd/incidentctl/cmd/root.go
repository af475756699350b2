// Package cmd contains the incidentctl commands.
package cmd

import (
	"fmt"

	"github.com/jrsteele09/citizen-watch/apiclient"
	"github.com/jrsteele09/citizen-watch/auth"
	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/jrsteele09/citizen-watch/internal/config"
	"github.com/jrsteele09/citizen-watch/internal/logging"
	"github.com/jrsteele09/citizen-watch/internal/output"
	"github.com/jrsteele09/citizen-watch/session/filestore"
	"github.com/jrsteele09/citizen-watch/users"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	apiURL      string
	sessionFile string
	noColor     bool
	quiet       bool
	verbose     bool

	cfg     config.Config
	logger  zerolog.Logger
	printer *output.Printer

	api          *apiclient.Client
	authService  *auth.Service
	incidentsSvc *incidents.Service
	profiles     *users.ProfileService
	accounts     *users.AdminService
)

var rootCmd = &cobra.Command{
	Use:   "incidentctl",
	Short: "Citizen security incident reporting CLI",
	Long: `incidentctl talks to the incident reporting API on behalf of a signed-in user.

The session is kept in a file between runs. Expired access tokens are
refreshed automatically; when the refresh token is no longer accepted
you are asked to log in again.

Example usage:
  incidentctl login --email ana@example.com
  incidentctl report --type robbery --description "Phone snatched" --lat 19.43 --lng -99.13
  incidentctl list --status reported
  incidentctl stats --since 168h
  incidentctl watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient(cmd)
	},
}

// Execute runs the root command. Errors that mean the session is gone get a hint to log in again.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && apiclient.LoginRequired(err) {
		return fmt.Errorf("%w (run \"incidentctl login\")", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default $API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session", "", "session file (default $SESSION_FILE)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors and results")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// cliLogConfig lets --verbose override LOG_LEVEL.
type cliLogConfig struct {
	config.Config
}

func (c cliLogConfig) GetLogLevel() string {
	if verbose {
		return "debug"
	}
	return c.Config.GetLogLevel()
}

func initClient(cmd *cobra.Command) error {
	cfg = config.New()
	logger = logging.NewWithWriter(cliLogConfig{cfg}, cmd.ErrOrStderr())
	printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), !noColor && output.ColorsEnabled(), quiet)

	if apiURL == "" {
		apiURL = cfg.GetAPIBaseURL()
	}
	if sessionFile == "" {
		sessionFile = cfg.GetSessionFile()
	}

	store, err := filestore.Open(sessionFile)
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}

	options := []apiclient.Option{
		apiclient.WithTimeout(cfg.GetRequestTimeout()),
		apiclient.WithLogger(logger),
	}
	if cfg.GetRefreshCoalescing() {
		options = append(options, apiclient.WithRefreshCoalescing())
	}
	api, err = apiclient.New(apiURL, store, options...)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	authService = auth.NewService(api, auth.WithLogger(logger))
	incidentsSvc = incidents.NewService(api)
	profiles = users.NewProfileService(api)
	accounts = users.NewAdminService(api)

	logger.Debug().Str("api", apiURL).Str("session", sessionFile).Msg("client ready")
	return nil
}
