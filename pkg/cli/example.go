package cli

import (
	"context"

	"github.com/secmon-lab/gradecalc/pkg/cli/config"
	"github.com/secmon-lab/gradecalc/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// exampleInput is a course with one assignment and one on-time submission.
// It grades to [{"id": 1, "avg": 90, "101": 0.9}].
func exampleInput() *model.GradingInput {
	return &model.GradingInput{
		Course: model.Course{ID: 1, Name: "Course A"},
		AssignmentGroup: model.AssignmentGroup{
			ID:          1,
			Name:        "Group A",
			CourseID:    1,
			GroupWeight: 0.5,
			Assignments: []model.Assignment{
				{ID: 101, Name: "Assignment 1", DueAt: "2023-12-10", PointsPossible: 100},
			},
		},
		LearnerSubmissions: []model.LearnerSubmission{
			{
				LearnerID:    1,
				AssignmentID: 101,
				Submission:   model.Submission{SubmittedAt: "2023-12-08", Score: 90},
			},
		},
	}
}

func cmdExample() *cli.Command {
	var outputCfg config.Output

	return &cli.Command{
		Name:  "example",
		Usage: "Grade a built-in sample course and print the result",
		Flags: outputCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return gradeAndWrite(ctx, exampleInput(), model.DefaultPolicy(), &outputCfg)
		},
	}
}
