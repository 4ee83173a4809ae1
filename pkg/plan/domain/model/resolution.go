package model

import "strings"

type ResolutionRule string

const (
	RuleDefault      ResolutionRule = "default"
	RuleSingle       ResolutionRule = "single"
	RuleIntersection ResolutionRule = "intersection"
	RuleUnion        ResolutionRule = "union"
	RuleLargest      ResolutionRule = "largest"
)

// Resolution is the outcome of matching restrictions against one pool slot.
type Resolution struct {
	Keys       []string
	Candidates []string
	Rule       ResolutionRule
}

// Key is the bucket identifier stored alongside generated plans.
func (r Resolution) Key() string {
	if len(r.Keys) == 0 {
		return DefaultBucket
	}
	return strings.Join(r.Keys, "+")
}
