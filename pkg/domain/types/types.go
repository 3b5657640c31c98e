package types

import (
	"strconv"

	"github.com/google/uuid"
)

// CourseID represents a course identifier
type CourseID int

// String returns the string representation
func (id CourseID) String() string {
	return strconv.Itoa(int(id))
}

// AssignmentGroupID represents an assignment group identifier
type AssignmentGroupID int

// String returns the string representation
func (id AssignmentGroupID) String() string {
	return strconv.Itoa(int(id))
}

// AssignmentID represents an assignment identifier
type AssignmentID int

// String returns the string representation
func (id AssignmentID) String() string {
	return strconv.Itoa(int(id))
}

// ParseAssignmentID parses the decimal form used as a key in learner summaries
func ParseAssignmentID(s string) (AssignmentID, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return AssignmentID(v), nil
}

// LearnerID represents a learner identifier
type LearnerID int

// String returns the string representation
func (id LearnerID) String() string {
	return strconv.Itoa(int(id))
}

// Int returns the int representation
func (id LearnerID) Int() int {
	return int(id)
}

// RunID identifies a single CLI invocation in logs
type RunID string

// String returns the string representation
func (id RunID) String() string {
	return string(id)
}

// NewRunID creates a new RunID using UUID v7
func NewRunID() (RunID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return RunID(id.String()), nil
}
