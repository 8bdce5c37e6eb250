package policy

import "fmt"

// Status is the three-way classification result spec §4.1 names.
type Status string

const (
	Compliant    Status = "compliant"
	NonCompliant Status = "non_compliant"
	Untagged     Status = "untagged"
)

// Classification is Classify's full result: the status plus, for
// NonCompliant, the list of violation reasons the Compliance Evaluator
// attaches to the record.
type Classification struct {
	Status     Status
	Violations []string
}

// Subject is the minimal view of a Resource Classify needs; it decouples
// this pure function from the discovery package's Resource type so policy
// has no import-time dependency on discovery.
type Subject struct {
	Service      string
	ResourceType string
	ResourceID   string
	Tags         map[string]string
}

// Classify implements spec §4.1's four-step classification algorithm. It is
// a pure function: no I/O, no mutation of rs or subject.
func Classify(subject Subject, rs RuleSet) Classification {
	required := rs.RequiredFor(subject.Service)
	exempted := exemptedKeys(subject, rs.Exemptions)

	if len(subject.Tags) == 0 {
		if allExempt(required, exempted) {
			return Classification{Status: Compliant}
		}
		return Classification{Status: Untagged}
	}

	effective := effectiveRequired(required, exempted)

	var violations []string
	for _, rule := range effective {
		value, present := subject.Tags[rule.Key]
		if !present {
			violations = append(violations, fmt.Sprintf("missing:%s", rule.Key))
			continue
		}
		if !rule.Matches(value) {
			violations = append(violations, fmt.Sprintf("pattern:%s", rule.Key))
		}
	}

	if len(violations) == 0 {
		return Classification{Status: Compliant}
	}
	return Classification{Status: NonCompliant, Violations: violations}
}

// exemptedKeys returns the set of tag keys any matching exemption excuses
// for this subject.
func exemptedKeys(subject Subject, exemptions []Exemption) map[string]bool {
	excused := map[string]bool{}
	for _, ex := range exemptions {
		if ex.Matches(subject.Service, subject.ResourceType, subject.ResourceID) {
			for _, key := range ex.TagKeys {
				excused[key] = true
			}
		}
	}
	return excused
}

func allExempt(required []TagRule, exempted map[string]bool) bool {
	for _, rule := range required {
		if !exempted[rule.Key] {
			return false
		}
	}
	return true
}

func effectiveRequired(required []TagRule, exempted map[string]bool) []TagRule {
	var effective []TagRule
	for _, rule := range required {
		if !exempted[rule.Key] {
			effective = append(effective, rule)
		}
	}
	return effective
}
