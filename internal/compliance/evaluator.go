// Package compliance implements the Compliance Evaluator (spec §4.5): a
// pure function over a consolidated record set that attaches a tag-policy
// verdict to every record and rolls the results up into a run summary.
package compliance

import (
	"github.com/dillib/cloudbom/internal/discovery"
	"github.com/dillib/cloudbom/internal/policy"
)

// Summary is the running compliance rollup attached to a snapshot (spec
// §4.5/§3 "embedded compliance summary").
type Summary struct {
	Total                int     `json:"total"`
	Compliant            int     `json:"compliant"`
	NonCompliant         int     `json:"non_compliant"`
	Untagged             int     `json:"untagged"`
	CompliancePercentage float64 `json:"compliance_percentage"`
}

// Evaluate classifies every record against rs, attaching ComplianceStatus
// and Violations in place on a copy of each record, and returns the
// updated slice alongside the resulting Summary. Evaluate is pure: given
// the same records and rs it produces byte-identical output, since
// policy.Classify itself performs no I/O and Resource carries no hidden
// mutable state.
//
// records is not mutated; Evaluate returns a new slice of updated copies,
// so callers holding the original slice keep seeing pre-evaluation values.
func Evaluate(records []discovery.Resource, rs policy.RuleSet) ([]discovery.Resource, Summary) {
	out := make([]discovery.Resource, len(records))
	var summary Summary

	for i, r := range records {
		subject := toSubject(r)
		classification := policy.Classify(subject, rs)

		updated := r
		updated.ComplianceStatus = string(classification.Status)
		updated.Violations = classification.Violations
		out[i] = updated

		summary.Total++
		switch classification.Status {
		case policy.Compliant:
			summary.Compliant++
		case policy.NonCompliant:
			summary.NonCompliant++
		case policy.Untagged:
			summary.Untagged++
		}
	}

	if summary.Total > 0 {
		summary.CompliancePercentage = float64(summary.Compliant) / float64(summary.Total) * 100
	}

	return out, summary
}

// toSubject adapts a discovery.Resource into the narrower policy.Subject
// view, keeping the policy package free of any import dependency on
// discovery.
func toSubject(r discovery.Resource) policy.Subject {
	return policy.Subject{
		Service:      r.Service,
		ResourceType: r.ResourceType,
		ResourceID:   r.ResourceID,
		Tags:         r.Tags,
	}
}
