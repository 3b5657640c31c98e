package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/cli/config"
	"github.com/secmon-lab/gradecalc/pkg/domain/types"
	"github.com/secmon-lab/gradecalc/pkg/utils/apperr"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger

	app := &cli.Command{
		Name:    "gradecalc",
		Usage:   "Weighted grade summaries from course, assignment group and submission records",
		Version: "0.1.0",
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			runID, err := types.NewRunID()
			if err != nil {
				return nil, goerr.Wrap(err, "failed to generate run ID")
			}
			logger = logger.With(slog.String("run_id", runID.String()))

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdGrade(),
			cmdExample(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		apperr.Report(ctx, err)
		return goerr.Wrap(err, "CLI execution failed")
	}

	return nil
}
