package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/cli/config"
	"github.com/secmon-lab/gradecalc/pkg/domain/model"
	"github.com/secmon-lab/gradecalc/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdGrade() *cli.Command {
	var (
		inputCfg  config.Input
		policyCfg config.Policy
		outputCfg config.Output
	)

	flags := joinFlags(
		inputCfg.Flags(),
		policyCfg.Flags(),
		outputCfg.Flags(),
	)

	return &cli.Command{
		Name:  "grade",
		Usage: "Compute learner summaries from an input document",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Debug("Starting grade",
				slog.Any("input", inputCfg),
				slog.Any("policy", policyCfg),
				slog.Any("output", outputCfg),
			)

			input, err := inputCfg.Load()
			if err != nil {
				return err
			}

			policy, err := policyCfg.Configure()
			if err != nil {
				return err
			}

			return gradeAndWrite(ctx, input, policy, &outputCfg)
		},
	}
}

// gradeAndWrite runs the grading pipeline and writes the report. Nothing is
// written when grading fails.
func gradeAndWrite(ctx context.Context, input *model.GradingInput, policy model.Policy, outputCfg *config.Output) error {
	writer, err := outputCfg.Configure()
	if err != nil {
		return err
	}

	grading, err := usecase.NewGrading(usecase.WithPolicy(policy))
	if err != nil {
		return err
	}

	result, err := grading.GetLearnerData(ctx, input.Course, input.AssignmentGroup, input.LearnerSubmissions)
	if err != nil {
		return goerr.Wrap(err, "failed to compute learner data",
			goerr.V("course_id", input.Course.ID),
			goerr.V("group_id", input.AssignmentGroup.ID))
	}

	out, err := outputCfg.Open()
	if err != nil {
		return err
	}
	defer out.Close()

	if err := writer.Write(out, result); err != nil {
		return goerr.Wrap(err, "failed to write report")
	}

	ctxlog.From(ctx).Info("Grades computed",
		slog.Int("learners", len(result)),
		slog.Int("submissions", len(input.LearnerSubmissions)),
		slog.String("format", outputCfg.Format),
	)
	return nil
}
