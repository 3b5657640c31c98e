package model

import (
	"github.com/secmon-lab/gradecalc/pkg/domain/types"
)

// LearnerScores holds one learner's fractional score per assignment in the
// order each assignment was first scored.
type LearnerScores struct {
	order     []types.AssignmentID
	fractions map[types.AssignmentID]float64
}

// NewLearnerScores creates an empty LearnerScores
func NewLearnerScores() *LearnerScores {
	return &LearnerScores{
		fractions: make(map[types.AssignmentID]float64),
	}
}

// Set stores the fraction for an assignment, overwriting any earlier value
func (s *LearnerScores) Set(id types.AssignmentID, fraction float64) {
	if _, ok := s.fractions[id]; !ok {
		s.order = append(s.order, id)
	}
	s.fractions[id] = fraction
}

// Get returns the fraction for an assignment
func (s *LearnerScores) Get(id types.AssignmentID) (float64, bool) {
	f, ok := s.fractions[id]
	return f, ok
}

// AssignmentIDs returns scored assignment IDs in insertion order
func (s *LearnerScores) AssignmentIDs() []types.AssignmentID {
	result := make([]types.AssignmentID, len(s.order))
	copy(result, s.order)
	return result
}

// Len returns the number of scored assignments
func (s *LearnerScores) Len() int {
	return len(s.order)
}

// ScoreMap maps learners to their scores, in order of first eligible submission
type ScoreMap struct {
	order    []types.LearnerID
	learners map[types.LearnerID]*LearnerScores
}

// NewScoreMap creates an empty ScoreMap
func NewScoreMap() *ScoreMap {
	return &ScoreMap{
		learners: make(map[types.LearnerID]*LearnerScores),
	}
}

// Set stores a fraction for a learner and assignment
func (m *ScoreMap) Set(learner types.LearnerID, assignment types.AssignmentID, fraction float64) {
	scores, ok := m.learners[learner]
	if !ok {
		scores = NewLearnerScores()
		m.learners[learner] = scores
		m.order = append(m.order, learner)
	}
	scores.Set(assignment, fraction)
}

// Scores returns the scores of a learner
func (m *ScoreMap) Scores(learner types.LearnerID) (*LearnerScores, bool) {
	scores, ok := m.learners[learner]
	return scores, ok
}

// LearnerIDs returns learner IDs in insertion order
func (m *ScoreMap) LearnerIDs() []types.LearnerID {
	result := make([]types.LearnerID, len(m.order))
	copy(result, m.order)
	return result
}

// Len returns the number of learners
func (m *ScoreMap) Len() int {
	return len(m.order)
}

// WeightedAverage returns the learner's average on a 0-100 scale. Every
// assignment carries weight 1; points possible and group weight are not
// applied. Returns 0 when nothing is scored.
func WeightedAverage(scores *LearnerScores) float64 {
	if scores == nil {
		return 0
	}

	var totalScore, totalWeight float64
	for _, id := range scores.order {
		const weight = 1.0
		totalScore += scores.fractions[id] * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0
	}
	return totalScore / totalWeight * 100
}
