package cli

import (
	"context"

	"jobparser/internal/common"
	"jobparser/internal/types"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [job-description-file|-]",
	Short: "Extract structured fields from a job description",
	Long: `Extract structured fields from a job description read from a file, or
from stdin when the file is omitted or "-".

Every field is always present in the output; fields the text does not
mention carry their documented defaults.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &parseConfig)
	},
	RunE: runParse,
}

var parseConfig common.CommandConfig

func init() {
	addOutputFlags(parseCmd, &parseConfig)
}

func runParse(cmd *cobra.Command, args []string) error {
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

	return common.RunTextCommand(cmd.Context(), logger, parseConfig, input,
		func(ctx context.Context, text string) (types.ParseResult, error) {
			return rt.service.Parse(ctx, text)
		})
}
