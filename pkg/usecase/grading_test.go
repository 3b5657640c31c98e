package usecase_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/gradecalc/pkg/domain/model"
	"github.com/secmon-lab/gradecalc/pkg/domain/types"
	"github.com/secmon-lab/gradecalc/pkg/usecase"
)

func newGrading(t *testing.T, opts ...usecase.GradingOption) *usecase.Grading {
	t.Helper()
	g, err := usecase.NewGrading(opts...)
	gt.NoError(t, err)
	return g
}

func submission(learner types.LearnerID, assignment types.AssignmentID, submittedAt string, score float64) model.LearnerSubmission {
	return model.LearnerSubmission{
		LearnerID:    learner,
		AssignmentID: assignment,
		Submission: model.Submission{
			SubmittedAt: submittedAt,
			Score:       score,
		},
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// sampleGroup mirrors a typical course setup with one assignment due far in the future
func sampleGroup() (model.Course, model.AssignmentGroup) {
	course := model.Course{ID: 451, Name: "Introduction to JavaScript"}
	group := model.AssignmentGroup{
		ID:          12345,
		Name:        "Fundamentals of JavaScript",
		CourseID:    451,
		GroupWeight: 25,
		Assignments: []model.Assignment{
			{ID: 1, Name: "Declare a Variable", DueAt: "2023-01-25", PointsPossible: 50},
			{ID: 2, Name: "Write a Function", DueAt: "2023-02-27", PointsPossible: 150},
			{ID: 3, Name: "Code the World", DueAt: "3156-11-15", PointsPossible: 500},
		},
	}
	return course, group
}

func TestGetLearnerData_DocumentedExample(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)

	course := model.Course{ID: 1, Name: "Course A"}
	group := model.AssignmentGroup{
		ID:          1,
		Name:        "Group A",
		CourseID:    1,
		GroupWeight: 0.5,
		Assignments: []model.Assignment{
			{ID: 101, Name: "Assignment 1", DueAt: "2023-12-10", PointsPossible: 100},
		},
	}
	submissions := []model.LearnerSubmission{
		submission(1, 101, "2023-12-08", 90),
	}

	result, err := g.GetLearnerData(ctx, course, group, submissions)
	gt.NoError(t, err)
	gt.Equal(t, len(result), 1)
	gt.Equal(t, result[0].ID, types.LearnerID(1))
	gt.Equal(t, result[0].Avg, 90.0)
	gt.Equal(t, result[0].Scores, []model.AssignmentScore{{AssignmentID: 101, Fraction: 0.9}})
}

func TestGetLearnerData_CourseMismatch(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)

	course := model.Course{ID: 1}
	group := model.AssignmentGroup{
		ID:       1,
		CourseID: 2,
		Assignments: []model.Assignment{
			{ID: 101, DueAt: "2023-12-10", PointsPossible: 100},
		},
	}

	result, err := g.GetLearnerData(ctx, course, group, []model.LearnerSubmission{
		submission(1, 101, "2023-12-08", 90),
	})
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, model.ErrTagInvalidInput)).True()
	gt.V(t, result).Nil()

	values := goerr.Values(err)
	gt.V(t, values["course_id"]).Equal(types.CourseID(1))
	gt.V(t, values["group_course_id"]).Equal(types.CourseID(2))
}

func TestGetLearnerData_MultipleLearners(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)
	course, group := sampleGroup()

	submissions := []model.LearnerSubmission{
		submission(125, 1, "2023-01-25", 47),
		submission(125, 2, "2023-02-12", 150),
		submission(125, 3, "2023-01-25", 400),
		submission(132, 1, "2023-01-24", 39),
		submission(132, 2, "2023-03-07", 140), // late
	}

	result, err := g.GetLearnerData(ctx, course, group, submissions)
	gt.NoError(t, err)
	gt.Equal(t, len(result), 2)

	t.Run("learner with all on-time submissions", func(t *testing.T) {
		s := result[0]
		gt.Equal(t, s.ID, types.LearnerID(125))
		gt.Equal(t, len(s.Scores), 3)

		f, ok := s.Score(1)
		gt.True(t, ok)
		gt.Equal(t, f, 47.0/50.0)
		f, _ = s.Score(2)
		gt.Equal(t, f, 1.0)
		f, _ = s.Score(3)
		gt.Equal(t, f, 0.8)

		gt.True(t, approx(s.Avg, (0.94+1.0+0.8)/3*100))
	})

	t.Run("late submission leaves no entry", func(t *testing.T) {
		s := result[1]
		gt.Equal(t, s.ID, types.LearnerID(132))
		gt.Equal(t, len(s.Scores), 1)

		_, ok := s.Score(2)
		gt.False(t, ok)
		gt.True(t, approx(s.Avg, 78))
	})
}

func TestGetLearnerData_OrderFollowsFirstEligibleSubmission(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)
	course, group := sampleGroup()

	submissions := []model.LearnerSubmission{
		submission(300, 2, "2024-01-01", 100), // late, does not place learner 300
		submission(200, 1, "2023-01-01", 50),
		submission(100, 1, "2023-01-01", 25),
		submission(300, 1, "2023-01-01", 10),
		submission(200, 2, "2023-01-01", 150),
	}

	result, err := g.GetLearnerData(ctx, course, group, submissions)
	gt.NoError(t, err)
	gt.Equal(t, len(result), 3)
	gt.Equal(t, result[0].ID, types.LearnerID(200))
	gt.Equal(t, result[1].ID, types.LearnerID(100))
	gt.Equal(t, result[2].ID, types.LearnerID(300))
}

func TestGetLearnerData_LearnerWithoutEligibleSubmissions(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)
	course, group := sampleGroup()

	submissions := []model.LearnerSubmission{
		submission(1, 1, "2023-01-20", 50),
		submission(2, 1, "2023-01-26", 50),
		submission(2, 2, "2023-02-28", 150),
	}

	result, err := g.GetLearnerData(ctx, course, group, submissions)
	gt.NoError(t, err)
	gt.Equal(t, len(result), 1)
	gt.Equal(t, result[0].ID, types.LearnerID(1))
	gt.Equal(t, result[0].Avg, 100.0)
}

func TestGetLearnerData_LateSubmissionDoesNotAffectOthers(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)
	course, group := sampleGroup()

	base := []model.LearnerSubmission{
		submission(1, 1, "2023-01-20", 40),
		submission(1, 2, "2023-02-01", 120),
	}
	withLate := append([]model.LearnerSubmission{
		submission(2, 1, "2023-02-01", 0),
	}, base...)

	expected, err := g.GetLearnerData(ctx, course, group, base)
	gt.NoError(t, err)
	actual, err := g.GetLearnerData(ctx, course, group, withLate)
	gt.NoError(t, err)

	gt.Equal(t, len(actual), 1)
	gt.Equal(t, actual[0].Avg, expected[0].Avg)
	gt.Equal(t, actual[0].Scores, expected[0].Scores)
}

func TestGetLearnerData_SubmittedOnDueDate(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)
	course, group := sampleGroup()

	result, err := g.GetLearnerData(ctx, course, group, []model.LearnerSubmission{
		submission(1, 1, "2023-01-25", 45),
	})
	gt.NoError(t, err)
	gt.Equal(t, len(result), 1)

	f, ok := result[0].Score(1)
	gt.True(t, ok)
	gt.Equal(t, f, 45.0/50.0)
}

func TestGetLearnerData_ResubmissionOverwrites(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)
	course, group := sampleGroup()

	result, err := g.GetLearnerData(ctx, course, group, []model.LearnerSubmission{
		submission(1, 1, "2023-01-20", 10),
		submission(1, 2, "2023-01-20", 150),
		submission(1, 1, "2023-01-21", 50),
	})
	gt.NoError(t, err)
	gt.Equal(t, result[0].Scores, []model.AssignmentScore{
		{AssignmentID: 1, Fraction: 1},
		{AssignmentID: 2, Fraction: 1},
	})
}

func TestGetLearnerData_UnknownAssignment(t *testing.T) {
	ctx := context.Background()
	course, group := sampleGroup()
	submissions := []model.LearnerSubmission{
		submission(1, 999, "2023-01-01", 100),
		submission(1, 1, "2023-01-01", 25),
		submission(2, 999, "2023-01-01", 100),
	}

	t.Run("skipped by default", func(t *testing.T) {
		g := newGrading(t)
		result, err := g.GetLearnerData(ctx, course, group, submissions)
		gt.NoError(t, err)
		gt.Equal(t, len(result), 1)
		gt.Equal(t, result[0].ID, types.LearnerID(1))
		gt.Equal(t, result[0].Scores, []model.AssignmentScore{{AssignmentID: 1, Fraction: 0.5}})
	})

	t.Run("abort policy fails the call", func(t *testing.T) {
		g := newGrading(t, usecase.WithUnknownAssignmentAction(types.PolicyActionAbort))
		result, err := g.GetLearnerData(ctx, course, group, submissions)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagUnknownAssignment)).True()
		gt.V(t, goerr.Values(err)["assignment_id"]).Equal(types.AssignmentID(999))
		gt.V(t, result).Nil()
	})
}

func TestGetLearnerData_ZeroPointsPossible(t *testing.T) {
	ctx := context.Background()
	course := model.Course{ID: 1}
	group := model.AssignmentGroup{
		ID:       1,
		CourseID: 1,
		Assignments: []model.Assignment{
			{ID: 1, DueAt: "2023-12-10", PointsPossible: 0},
			{ID: 2, DueAt: "2023-12-10", PointsPossible: 20},
		},
	}
	submissions := []model.LearnerSubmission{
		submission(1, 1, "2023-12-01", 10),
		submission(1, 2, "2023-12-01", 10),
	}

	t.Run("skipped by default without NaN or Inf", func(t *testing.T) {
		g := newGrading(t)
		result, err := g.GetLearnerData(ctx, course, group, submissions)
		gt.NoError(t, err)
		gt.Equal(t, len(result), 1)
		gt.Equal(t, result[0].Scores, []model.AssignmentScore{{AssignmentID: 2, Fraction: 0.5}})
		gt.False(t, math.IsNaN(result[0].Avg))
		gt.Equal(t, result[0].Avg, 50.0)
	})

	t.Run("abort policy fails the call", func(t *testing.T) {
		g := newGrading(t, usecase.WithZeroPointsAction(types.PolicyActionAbort))
		_, err := g.GetLearnerData(ctx, course, group, submissions)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagZeroPoints)).True()
	})
}

func TestGetLearnerData_MalformedDates(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)

	t.Run("due date", func(t *testing.T) {
		course, group := sampleGroup()
		group.Assignments[1].DueAt = "someday"
		result, err := g.GetLearnerData(ctx, course, group, []model.LearnerSubmission{
			submission(1, 1, "2023-01-01", 50),
		})
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagMalformedDate)).True()
		gt.V(t, result).Nil()
	})

	t.Run("submission date aborts without partial result", func(t *testing.T) {
		course, group := sampleGroup()
		result, err := g.GetLearnerData(ctx, course, group, []model.LearnerSubmission{
			submission(1, 1, "2023-01-01", 50),
			submission(2, 1, "01/02/2023", 50),
		})
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagMalformedDate)).True()
		gt.V(t, result).Nil()
	})
}

func TestGetLearnerData_NoSubmissions(t *testing.T) {
	ctx := context.Background()
	g := newGrading(t)
	course, group := sampleGroup()

	result, err := g.GetLearnerData(ctx, course, group, nil)
	gt.NoError(t, err)
	gt.Equal(t, len(result), 0)
}

func TestIndexAssignments(t *testing.T) {
	t.Run("later duplicate wins", func(t *testing.T) {
		group := model.AssignmentGroup{
			Assignments: []model.Assignment{
				{ID: 1, DueAt: "2023-01-01", PointsPossible: 10},
				{ID: 1, DueAt: "2023-06-01", PointsPossible: 20},
			},
		}
		index, err := usecase.IndexAssignments(group)
		gt.NoError(t, err)
		gt.Equal(t, len(index), 1)

		detail, ok := index.Lookup(1)
		gt.True(t, ok)
		gt.Equal(t, detail.PointsPossible, 20.0)
		gt.True(t, detail.DueAt.Equal(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("lookup of missing id reports absence", func(t *testing.T) {
		index, err := usecase.IndexAssignments(model.AssignmentGroup{})
		gt.NoError(t, err)
		_, ok := index.Lookup(42)
		gt.False(t, ok)
	})
}

func TestValidateCourse(t *testing.T) {
	gt.NoError(t, usecase.ValidateCourse(model.Course{ID: 7}, model.AssignmentGroup{CourseID: 7}))

	err := usecase.ValidateCourse(model.Course{ID: 7}, model.AssignmentGroup{CourseID: 8})
	gt.Error(t, err)
	gt.B(t, goerr.HasTag(err, model.ErrTagInvalidInput)).True()
}

func TestProcessSubmissions_GracePeriod(t *testing.T) {
	ctx := context.Background()
	index := model.AssignmentIndex{
		1: {PointsPossible: 100, DueAt: time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC)},
	}
	submissions := []model.LearnerSubmission{
		submission(1, 1, "2023-12-09", 80),
		submission(2, 1, "2023-12-11", 80),
		submission(3, 1, "2023-12-13", 80),
	}

	t.Run("strict window scores on-time only", func(t *testing.T) {
		g := newGrading(t)
		scores, err := g.ProcessSubmissions(ctx, submissions, index)
		gt.NoError(t, err)
		gt.Equal(t, scores.LearnerIDs(), []types.LearnerID{1})
	})

	t.Run("grace window applies late penalty", func(t *testing.T) {
		policy := model.DefaultPolicy()
		policy.GracePeriod = 48 * time.Hour
		g := newGrading(t, usecase.WithPolicy(policy))

		scores, err := g.ProcessSubmissions(ctx, submissions, index)
		gt.NoError(t, err)
		gt.Equal(t, scores.LearnerIDs(), []types.LearnerID{1, 2})

		onTime, _ := scores.Scores(1)
		f, _ := onTime.Get(1)
		gt.Equal(t, f, 0.8)

		late, _ := scores.Scores(2)
		f, _ = late.Get(1)
		gt.True(t, approx(f, 0.7))
	})
}

func TestNewGrading_InvalidPolicy(t *testing.T) {
	_, err := usecase.NewGrading(usecase.WithUnknownAssignmentAction("ignore"))
	gt.Error(t, err)

	policy := model.DefaultPolicy()
	policy.LatePenalty = 2
	_, err = usecase.NewGrading(usecase.WithPolicy(policy))
	gt.Error(t, err)
}
