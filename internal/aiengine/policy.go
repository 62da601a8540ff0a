package aiengine

import "fmt"

// Policy decides what a caller does when the AI engine cannot answer.
type Policy string

const (
	PolicyAllow Policy = "allow"
	PolicyDeny  Policy = "deny"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyAllow, PolicyDeny:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown unavailable policy %q", s)
}

func (p Policy) Allows() bool {
	return p == PolicyAllow
}
