package model

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/domain/types"
)

// DefaultLatePenalty is the share of points possible deducted from a
// submission that is late but inside the grace period.
const DefaultLatePenalty = 0.1

// Policy controls how per-record issues are handled and how late
// submissions are treated
type Policy struct {
	OnUnknownAssignment types.PolicyAction
	OnZeroPoints        types.PolicyAction
	// GracePeriod widens the eligibility window past the due date. Zero
	// means only submissions at or before the due date are scored.
	GracePeriod time.Duration
	LatePenalty float64      
}

// DefaultPolicy returns the policy used when none is configured
func DefaultPolicy() Policy {
	return Policy{
		OnUnknownAssignment: types.PolicyActionSkip,
		OnZeroPoints:        types.PolicyActionSkip,
		GracePeriod:         0,
		LatePenalty:         DefaultLatePenalty,
	}
}

// Validate validates the policy
func (p *Policy) Validate() error {
	if !p.OnUnknownAssignment.IsValid() {
		return goerr.New("invalid action for unknown assignment",
			goerr.V("action", p.OnUnknownAssignment))
	}
	if !p.OnZeroPoints.IsValid() {
		return goerr.New("invalid action for zero points possible",
			goerr.V("action", p.OnZeroPoints))
	}
	if p.GracePeriod < 0 {
		return goerr.New("grace period must not be negative",
			goerr.V("grace_period", p.GracePeriod))
	}
	if p.LatePenalty < 0 || p.LatePenalty > 1 {
		return goerr.New("late penalty must be between 0 and 1",
			goerr.V("late_penalty", p.LatePenalty))
	}
	return nil
}

// Deadline returns the latest eligible submission time for a due date
func (p *Policy) Deadline(dueAt time.Time) time.Time {
	return dueAt.Add(p.GracePeriod)
}

// LogValue returns structured log value
func (p Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("on_unknown_assignment", p.OnUnknownAssignment.String()),
		slog.String("on_zero_points", p.OnZeroPoints.String()),
		slog.Duration("grace_period", p.GracePeriod),
		slog.Float64("late_penalty", p.LatePenalty),
	)
}
