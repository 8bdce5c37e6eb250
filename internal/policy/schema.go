// Package policy implements the Policy Loader and Compliance Evaluator's
// pure classification function: parsing a declarative tag policy document
// and classifying a discovered resource against it (spec §4.1).
package policy

import "regexp"

// TagRule is one required or optional tag key's constraint: an allowed
// value set, a regex pattern, or neither (presence-only).
type TagRule struct {
	Key           string
	AllowedValues []string
	Pattern       *regexp.Regexp
}

// Matches reports whether value satisfies this rule's constraint. A rule
// with neither an allowed-value set nor a pattern accepts any value,
// including the empty string.
func (r TagRule) Matches(value string) bool {
	if len(r.AllowedValues) > 0 {
		for _, v := range r.AllowedValues {
			if v == value {
				return true
			}
		}
		return false
	}
	if r.Pattern != nil {
		return r.Pattern.MatchString(value)
	}
	return true
}

// ServiceOverride replaces the global required/optional sets for a named
// service (spec §3, "per-service rule overrides that replace required/
// optional sets").
type ServiceOverride struct {
	Service  string
	Required []TagRule
	Optional []TagRule
}

// Exemption excuses a matching resource from needing one or more tag keys
// (spec §3, "exemption rules matching (service, type, id-pattern)").
type Exemption struct {
	Service    string // empty matches any service
	Type       string // empty matches any resource type
	IDPattern  *regexp.Regexp
	TagKeys    []string
}

// Matches reports whether this exemption applies to a resource identified
// by service, resourceType, and id.
func (e Exemption) Matches(service, resourceType, id string) bool {
	if e.Service != "" && e.Service != service {
		return false
	}
	if e.Type != "" && e.Type != resourceType {
		return false
	}
	if e.IDPattern != nil && !e.IDPattern.MatchString(id) {
		return false
	}
	return true
}

// RuleSet is the Policy Loader's in-memory, immutable output (spec §4.1).
// Once built by Load, no field is mutated.
type RuleSet struct {
	Required  []TagRule
	Optional  []TagRule
	Overrides map[string]ServiceOverride
	Exemptions []Exemption
}

// RequiredFor returns the effective required-key rule set for a service,
// per spec §4.5 step 2: the global required set, replaced wholesale by a
// per-service override when one is registered.
func (rs RuleSet) RequiredFor(service string) []TagRule {
	if override, ok := rs.Overrides[service]; ok {
		return override.Required
	}
	return rs.Required
}
