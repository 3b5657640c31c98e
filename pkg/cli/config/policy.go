package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/domain/model"
	"github.com/secmon-lab/gradecalc/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Policy holds grading policy configuration
type Policy struct {
	OnUnknownAssignment string
	OnZeroPoints        string
	GracePeriod         time.Duration
	LatePenalty         float64
}

// Flags returns CLI flags for Policy configuration
func (p *Policy) Flags() []cli.Flag {
	defaults := model.DefaultPolicy()

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "on-unknown-assignment",
			Usage:       "Handling of submissions for assignments not in the group (skip, abort)",
			Category:    "Policy",
			Value:       defaults.OnUnknownAssignment.String(),
			Sources:     cli.EnvVars("GRADECALC_ON_UNKNOWN_ASSIGNMENT"),
			Destination: &p.OnUnknownAssignment,
		},
		&cli.StringFlag{
			Name:        "on-zero-points",
			Usage:       "Handling of submissions for assignments with no points possible (skip, abort)",
			Category:    "Policy",
			Value:       defaults.OnZeroPoints.String(),
			Sources:     cli.EnvVars("GRADECALC_ON_ZERO_POINTS"),
			Destination: &p.OnZeroPoints,
		},
		&cli.DurationFlag{
			Name:        "grace-period",
			Usage:       "Accept late submissions up to this long after the due date, with the late penalty applied",
			Category:    "Policy",
			Value:       defaults.GracePeriod,
			Sources:     cli.EnvVars("GRADECALC_GRACE_PERIOD"),
			Destination: &p.GracePeriod,
		},
		&cli.FloatFlag{
			Name:        "late-penalty",
			Usage:       "Share of points possible deducted from submissions inside the grace period",
			Category:    "Policy",
			Value:       defaults.LatePenalty,
			Sources:     cli.EnvVars("GRADECALC_LATE_PENALTY"),
			Destination: &p.LatePenalty,
		},
	}
}

// Configure builds a validated model.Policy
func (p *Policy) Configure() (model.Policy, error) {
	policy := model.Policy{
		OnUnknownAssignment: types.PolicyAction(p.OnUnknownAssignment),
		OnZeroPoints:        types.PolicyAction(p.OnZeroPoints),
		GracePeriod:         p.GracePeriod,
		LatePenalty:         p.LatePenalty,
	}
	if err := policy.Validate(); err != nil {
		return model.Policy{}, goerr.Wrap(err, "invalid policy configuration")
	}
	return policy, nil
}

// LogValue returns structured log value
func (p Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("on_unknown_assignment", p.OnUnknownAssignment),
		slog.String("on_zero_points", p.OnZeroPoints),
		slog.Duration("grace_period", p.GracePeriod),
		slog.Float64("late_penalty", p.LatePenalty),
	)
}
