package cli

import (
	"context"

	"jobparser/internal/common"
	"jobparser/internal/types"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish [job-description-file|-]",
	Short: "Parse a job description and publish it as a job posting",
	Long: `Parse a job description, build a job posting from the record and the
employer flags, validate it, and send it to every configured publisher
(the job store service and/or the postings database).

Use --dry-run to build and validate the posting without sending it.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &publishConfig)
	},
	RunE: runPublish,
}

var (
	publishConfig   common.CommandConfig
	publishEmployer types.Employer
	publishDryRun   bool
)

func init() {
	addOutputFlags(publishCmd, &publishConfig)
	publishCmd.Flags().StringVar(&publishEmployer.ID, "employer-id", "", "Employer id recorded on the posting")
	publishCmd.Flags().StringVar(&publishEmployer.Email, "employer-email", "", "Employer contact email")
	publishCmd.Flags().StringVar(&publishEmployer.Name, "employer-name", "", "Employer contact name")
	publishCmd.Flags().StringVar(&publishEmployer.Company, "employer-company", "", "Company name, overriding the one found in the text")
	publishCmd.Flags().StringVar(&publishEmployer.LogoURL, "employer-logo", "", "Company logo URL")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Build and validate the posting without publishing it")
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd.Context(), cfg, logger, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	input := ""
	if len(args) == 1 {
		input = args[0]
	}

	return common.RunTextCommand(cmd.Context(), logger, publishConfig, input,
		func(ctx context.Context, text string) (types.PublishResponse, error) {
			return rt.service.Publish(ctx, types.PublishRequest{
				Text:     text,
				Employer: publishEmployer,
				DryRun:   publishDryRun,
			})
		})
}
