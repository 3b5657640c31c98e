package model

import (
	"time"

	"github.com/secmon-lab/gradecalc/pkg/domain/types"
)

// AssignmentDetail holds the grading parameters of an assignment
type AssignmentDetail struct {
	PointsPossible float64
	DueAt          time.Time
}

// AssignmentIndex maps assignment IDs to their grading parameters
type AssignmentIndex map[types.AssignmentID]AssignmentDetail

// Lookup returns the detail for id and whether it exists
func (idx AssignmentIndex) Lookup(id types.AssignmentID) (AssignmentDetail, bool) {
	detail, ok := idx[id]
	return detail, ok
}
