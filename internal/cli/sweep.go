package cli

import (
	"jobparser/internal/common"
	"jobparser/internal/config"
	"jobparser/internal/errors"
	"jobparser/internal/inbox"
	"jobparser/internal/types"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Process a directory of job descriptions on a schedule",
	Long: `Sweep an inbox directory for job description files. Each file is parsed
and turned into a posting; with --publish the posting is sent to the
configured publishers. Processed files move to <dir>/processed and failures
to <dir>/failed.

Without --once the sweep repeats on the cron schedule (for example
"@every 5m" or "*/10 * * * *") until interrupted.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &sweepConfig)
	},
	RunE: runSweep,
}

var (
	sweepConfig   common.CommandConfig
	sweepOnce     bool
	sweepEmployer types.Employer
)

func init() {
	addOutputFlags(sweepCmd, &sweepConfig)
	sweepCmd.Flags().String("dir", "", "Inbox directory (default from config)")
	sweepCmd.Flags().String("schedule", "", "Cron schedule (default from config)")
	sweepCmd.Flags().String("pattern", "", "File name glob (default from config)")
	sweepCmd.Flags().Bool("publish", false, "Publish postings instead of only validating them")
	sweepCmd.Flags().BoolVar(&sweepOnce, "once", false, "Sweep once, print the report and exit")
	sweepCmd.Flags().StringVar(&sweepEmployer.Email, "employer-email", "", "Employer contact email for every posting")
	sweepCmd.Flags().StringVar(&sweepEmployer.Name, "employer-name", "", "Employer contact name for every posting")
	sweepCmd.Flags().StringVar(&sweepEmployer.Company, "employer-company", "", "Company name for every posting")
}

// applySweepFlags copies explicitly set flags over the inbox configuration
func applySweepFlags(cmd *cobra.Command, cfg *config.InboxConfig) {
	for flag, target := range map[string]*string{
		"dir":      &cfg.Dir,
		"schedule": &cfg.Schedule,
		"pattern":  &cfg.Pattern,
	} {
		if cmd.Flags().Changed(flag) {
			*target, _ = cmd.Flags().GetString(flag)
		}
	}
	if cmd.Flags().Changed("publish") {
		cfg.Publish, _ = cmd.Flags().GetBool("publish")
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	inboxCfg := cfg.Inbox
	applySweepFlags(cmd, &inboxCfg)
	if inboxCfg.Dir == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidInput, "an inbox directory is required (--dir or inbox.dir)", nil)
	}

	rt, err := newRuntime(cmd.Context(), cfg, logger, !sweepOnce)
	if err != nil {
		return err
	}
	defer rt.Close()

	sweeper := inbox.New(rt.service, inboxCfg, inbox.Options{
		Employer:    sweepEmployer,
		MaxFileSize: cfg.App.MaxFileSize,
		Metrics:     rt.observability.GetMetrics(),
		Logger:      logger,
	})

	if sweepOnce {
		report, err := sweeper.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		return common.NewOutputHandler(logger).HandleOutput(report, sweepConfig)
	}

	if watcher := rt.libraryWatcher(cfg); watcher != nil {
		if err := watcher.Start(); err != nil {
			return err
		}
		defer func() { _ = watcher.Stop() }()
	}

	if err := sweeper.Start(cmd.Context()); err != nil {
		return err
	}
	<-cmd.Context().Done()
	sweeper.Stop()
	return nil
}
