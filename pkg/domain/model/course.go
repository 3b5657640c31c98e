package model

import (
	"github.com/secmon-lab/gradecalc/pkg/domain/types"
)

// Course identifies the course owning an assignment group
type Course struct {
	ID   types.CourseID `json:"id" yaml:"id"`
	Name string         `json:"name,omitempty" yaml:"name,omitempty"`
}

// AssignmentGroup is a set of assignments graded together within a course
type AssignmentGroup struct {
	ID       types.AssignmentGroupID `json:"id" yaml:"id"`
	Name     string                  `json:"name,omitempty" yaml:"name,omitempty"`
	CourseID types.CourseID          `json:"course_id" yaml:"course_id"`
	// GroupWeight is accepted for compatibility but not applied to averages
	GroupWeight float64      `json:"group_weight,omitempty" yaml:"group_weight,omitempty"`
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
}

// BelongsTo reports whether the group references the given course
func (g *AssignmentGroup) BelongsTo(course Course) bool {
	return g.CourseID == course.ID
}

// Assignment is a single gradable item. DueAt is kept in its wire form and
// parsed when the group is indexed.
type Assignment struct {
	ID             types.AssignmentID `json:"id" yaml:"id"`
	Name           string             `json:"name,omitempty" yaml:"name,omitempty"`
	DueAt          string             `json:"due_at" yaml:"due_at"`
	PointsPossible float64            `json:"points_possible" yaml:"points_possible"`
}

// LearnerSubmission is one learner's submission for one assignment
type LearnerSubmission struct {
	LearnerID    types.LearnerID    `json:"learner_id" yaml:"learner_id"`
	AssignmentID types.AssignmentID `json:"assignment_id" yaml:"assignment_id"`
	Submission   Submission         `json:"submission" yaml:"submission"`
}

// Submission holds when a submission was made and its raw score
type Submission struct {
	SubmittedAt string  `json:"submitted_at" yaml:"submitted_at"`
	Score       float64 `json:"score" yaml:"score"`
}

// GradingInput is a complete input document: a course, one of its
// assignment groups and the submissions to grade
type GradingInput struct {
	Course             Course              `json:"course" yaml:"course"`
	AssignmentGroup    AssignmentGroup     `json:"assignment_group" yaml:"assignment_group"`
	LearnerSubmissions []LearnerSubmission `json:"learner_submissions" yaml:"learner_submissions"`
}
