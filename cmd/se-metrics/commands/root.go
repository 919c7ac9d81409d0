package commands

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"se-metrics/internal/config"
	"se-metrics/internal/jira"
	"se-metrics/internal/logging"
	"se-metrics/internal/report"
	"se-metrics/internal/server"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "se-metrics",
	Short: "se-metrics serves weekly Jira engineering metrics over HTTP",
	Long: `A reporting service that aggregates last week's Jira tickets for one project
(counts, resolution latency, status dwell-time, cross-team transfers) and
serves the result as a single JSON document.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("project", cfg.Report.ProjectKey).
			Msg("se-metrics starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := jira.NewClient(cfg.Jira)
		generator := report.NewGenerator(client, cfg.Report)
		srv := server.New(cfg.Addr, cfg.Report, generator)

		return srv.Run(ctx)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
