package usecase

import (
	"context"
	"log/slog"
	"math"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/domain/model"
	"github.com/secmon-lab/gradecalc/pkg/domain/types"
	"github.com/secmon-lab/gradecalc/pkg/utils/apperr"
)

// Grading computes learner summaries for an assignment group
type Grading struct {
	policy model.Policy
}

// GradingOption configures Grading
type GradingOption func(*Grading)

// WithPolicy replaces the whole policy
func WithPolicy(p model.Policy) GradingOption {
	return func(g *Grading) { g.policy = p }
}

// WithUnknownAssignmentAction sets how submissions for unknown assignments are handled
func WithUnknownAssignmentAction(a types.PolicyAction) GradingOption {
	return func(g *Grading) { g.policy.OnUnknownAssignment = a }
}

// WithZeroPointsAction sets how assignments without points possible are handled
func WithZeroPointsAction(a types.PolicyAction) GradingOption {
	return func(g *Grading) { g.policy.OnZeroPoints = a }
}

// NewGrading creates a Grading with the default policy and the given options
func NewGrading(opts ...GradingOption) (*Grading, error) {
	g := &Grading{policy: model.DefaultPolicy()}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.policy.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid grading policy")
	}
	return g, nil
}

// GetLearnerData validates the input, scores every submission and returns one
// summary per learner with at least one eligible submission. Any fatal error
// aborts the call without a partial result.
func (g *Grading) GetLearnerData(ctx context.Context, course model.Course, group model.AssignmentGroup, submissions []model.LearnerSubmission) ([]*model.LearnerSummary, error) {
	if err := ValidateCourse(course, group); err != nil {
		return nil, err
	}

	index, err := IndexAssignments(group)
	if err != nil {
		return nil, err
	}

	scores, err := g.ProcessSubmissions(ctx, submissions, index)
	if err != nil {
		return nil, err
	}

	result := FormatResults(scores)

	ctxlog.From(ctx).Debug("Learner data computed",
		slog.Int("course_id", int(course.ID)),
		slog.Int("group_id", int(group.ID)),
		slog.Int("submissions", len(submissions)),
		slog.Int("learners", len(result)),
	)
	return result, nil
}

// ValidateCourse checks that the assignment group belongs to the course
func ValidateCourse(course model.Course, group model.AssignmentGroup) error {
	if !group.BelongsTo(course) {
		return goerr.New("assignment group does not belong to its course",
			goerr.T(model.ErrTagInvalidInput),
			goerr.V("course_id", course.ID),
			goerr.V("group_course_id", group.CourseID),
			goerr.V("group_id", group.ID))
	}
	return nil
}

// IndexAssignments maps each assignment ID to its points possible and parsed
// due date. A later assignment with the same ID replaces an earlier one.
func IndexAssignments(group model.AssignmentGroup) (model.AssignmentIndex, error) {
	index := make(model.AssignmentIndex, len(group.Assignments))
	for _, assignment := range group.Assignments {
		dueAt, err := types.ParseDate(assignment.DueAt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse assignment due date",
				goerr.T(model.ErrTagMalformedDate),
				goerr.V("assignment_id", assignment.ID),
				goerr.V("due_at", assignment.DueAt))
		}

		index[assignment.ID] = model.AssignmentDetail{
			PointsPossible: assignment.PointsPossible,
			DueAt:          dueAt,
		}
	}
	return index, nil
}

// ProcessSubmissions computes the fraction score of every eligible submission.
// A submission is eligible when it was made no later than the due date plus
// the grace period. Submissions after the due date but inside the grace period
// lose LatePenalty of points possible before normalization.
func (g *Grading) ProcessSubmissions(ctx context.Context, submissions []model.LearnerSubmission, index model.AssignmentIndex) (*model.ScoreMap, error) {
	logger := ctxlog.From(ctx)
	scores := model.NewScoreMap()

	for i, sub := range submissions {
		detail, ok := index.Lookup(sub.AssignmentID)
		if !ok {
			err := goerr.New("submission references unknown assignment",
				goerr.T(model.ErrTagUnknownAssignment),
				goerr.V("index", i),
				goerr.V("learner_id", sub.LearnerID),
				goerr.V("assignment_id", sub.AssignmentID))
			if g.policy.OnUnknownAssignment == types.PolicyActionAbort {
				return nil, err
			}
			apperr.Handle(ctx, err)
			continue
		}

		if detail.PointsPossible <= 0 {
			err := goerr.New("assignment has no points possible",
				goerr.T(model.ErrTagZeroPoints),
				goerr.V("index", i),
				goerr.V("learner_id", sub.LearnerID),
				goerr.V("assignment_id", sub.AssignmentID),
				goerr.V("points_possible", detail.PointsPossible))
			if g.policy.OnZeroPoints == types.PolicyActionAbort {
				return nil, err
			}
			apperr.Handle(ctx, err)
			continue
		}

		submittedAt, err := types.ParseDate(sub.Submission.SubmittedAt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse submission date",
				goerr.T(model.ErrTagMalformedDate),
				goerr.V("index", i),
				goerr.V("learner_id", sub.LearnerID),
				goerr.V("assignment_id", sub.AssignmentID),
				goerr.V("submitted_at", sub.Submission.SubmittedAt))
		}

		if submittedAt.After(g.policy.Deadline(detail.DueAt)) {
			logger.Debug("Skipping late submission",
				slog.Int("learner_id", sub.LearnerID.Int()),
				slog.Int("assignment_id", int(sub.AssignmentID)),
				slog.Time("submitted_at", submittedAt),
				slog.Time("due_at", detail.DueAt),
			)
			continue
		}

		score := sub.Submission.Score
		if submittedAt.After(detail.DueAt) {
			score -= detail.PointsPossible * g.policy.LatePenalty
		}
		fraction := score / detail.PointsPossible

		if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
			return nil, goerr.New("submission score is not a finite number",
				goerr.T(model.ErrTagInvalidInput),
				goerr.V("index", i),
				goerr.V("learner_id", sub.LearnerID),
				goerr.V("assignment_id", sub.AssignmentID),
				goerr.V("score", sub.Submission.Score))
		}

		scores.Set(sub.LearnerID, sub.AssignmentID, fraction)
	}

	return scores, nil
}

// FormatResults builds one summary per learner in the order learners were
// first scored
func FormatResults(scores *model.ScoreMap) []*model.LearnerSummary {
	result := make([]*model.LearnerSummary, 0, scores.Len())
	for _, learnerID := range scores.LearnerIDs() {
		learnerScores, _ := scores.Scores(learnerID)
		result = append(result, model.NewLearnerSummary(learnerID, learnerScores))
	}
	return result
}
