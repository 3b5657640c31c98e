package types

// PolicyAction selects how a per-record grading issue is handled
type PolicyAction string

const (
	// PolicyActionSkip drops the offending submission and keeps going
	PolicyActionSkip PolicyAction = "skip"
	// PolicyActionAbort fails the whole invocation
	PolicyActionAbort PolicyAction = "abort"
)

// String returns the string representation of the action
func (a PolicyAction) String() string {
	return string(a)
}

// IsValid checks if the action is valid
func (a PolicyAction) IsValid() bool {
	switch a {
	case PolicyActionSkip, PolicyActionAbort:
		return true
	default:
		return false
	}
}
