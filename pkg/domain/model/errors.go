package model

import "github.com/m-mizutani/goerr/v2"

// Error tags for grading failures
var (
	ErrTagInvalidInput      = goerr.NewTag("invalid_input")
	ErrTagMalformedDate     = goerr.NewTag("malformed_date")
	ErrTagUnknownAssignment = goerr.NewTag("unknown_assignment")
	ErrTagZeroPoints        = goerr.NewTag("zero_points_possible")
)
