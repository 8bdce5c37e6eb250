package discovery

import "regexp"

// ServicePattern is the per-service shape table the Field Mapper consults to
// normalize a raw API response into a Resource and to decide whether it is
// an AWS-managed artifact that should be filtered out (spec §4.2, §4.4).
type ServicePattern struct {
	ResourceTypes        []string
	Operations           []string
	NameFields           []string
	RegionDependent      bool
	GlobalService        bool
	ExcludeAWSManaged    bool
	ExcludeResourceTypes []string
	ManagedPatterns      []*regexp.Regexp
	RequiresRegionDetect bool
}

// FieldMapper normalizes raw provider payloads into Resource records and
// scores the result's confidence. Backends hold one FieldMapper and consult
// it per raw item (spec §4.2).
type FieldMapper struct {
	patterns map[string]ServicePattern
	weights  confidenceWeights
}

// confidenceWeights mirrors the teacher source's weighted scoring table,
// normalized so the full set sums to 1.0 once divided by total().
type confidenceWeights struct {
	hasResourceID     float64
	hasResourceName   float64
	hasResourceARN    float64
	hasCorrectType    float64
	hasTags           float64
	hasStatus         float64
	hasCreationDate   float64
	hasVPCInfo        float64
	hasSecurityGroups float64
	hasAccountID      float64
}

func (w confidenceWeights) total() float64 {
	return w.hasResourceID + w.hasResourceName + w.hasResourceARN + w.hasCorrectType +
		w.hasTags + w.hasStatus + w.hasCreationDate + w.hasVPCInfo + w.hasSecurityGroups + w.hasAccountID
}

var defaultWeights = confidenceWeights{
	hasResourceID:     2.5,
	hasResourceName:   2.0,
	hasResourceARN:    1.5,
	hasCorrectType:    1.5,
	hasTags:           1.0,
	hasStatus:         0.5,
	hasCreationDate:   0.5,
	hasVPCInfo:        0.5,
	hasSecurityGroups: 0.5,
	hasAccountID:      0.5,
}

// NewFieldMapper builds a FieldMapper preloaded with the AWS service pattern
// table (awsmapper.go). The table holds AWS services only; the supplemental
// backends have no pattern set of their own, so their services have no
// ServicePattern here.
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{patterns: awsServicePatterns(), weights: defaultWeights}
}

// Pattern looks up the pattern table entry for a service name. The lookup is
// case-sensitive; the table's keys are lower-case.
func (m *FieldMapper) Pattern(service string) (ServicePattern, bool) {
	p, ok := m.patterns[service]
	return p, ok
}

// ScoreFields computes spec §4.5's confidence formula: the weighted sum of
// present fields over the total possible weight, capped at 1.0.
func (m *FieldMapper) ScoreFields(f FieldPresence) float64 {
	w := m.weights
	var score float64
	if f.HasResourceID {
		score += w.hasResourceID
	}
	if f.HasResourceName {
		score += w.hasResourceName
	}
	if f.HasResourceARN {
		score += w.hasResourceARN
	}
	if f.HasCorrectType {
		score += w.hasCorrectType
	}
	if f.HasTags {
		score += w.hasTags
	}
	if f.HasStatus {
		score += w.hasStatus
	}
	if f.HasCreationDate {
		score += w.hasCreationDate
	}
	if f.HasVPCInfo {
		score += w.hasVPCInfo
	}
	if f.HasSecurityGroups {
		score += w.hasSecurityGroups
	}
	if f.HasAccountID {
		score += w.hasAccountID
	}
	total := w.total()
	if total == 0 {
		return 0
	}
	result := score / total
	if result > 1.0 {
		return 1.0
	}
	return result
}

// FieldPresence is the set of boolean observations ScoreFields combines into
// a confidence score; callers compute each flag from the Resource they just
// built rather than re-deriving it from raw JSON.
type FieldPresence struct {
	HasResourceID     bool
	HasResourceName   bool
	HasResourceARN    bool
	HasCorrectType    bool
	HasTags           bool
	HasStatus         bool
	HasCreationDate   bool
	HasVPCInfo        bool
	HasSecurityGroups bool
	HasAccountID      bool
}

// PresenceOf derives FieldPresence from a built Resource.
func PresenceOf(r Resource) FieldPresence {
	return FieldPresence{
		HasResourceID:     r.ResourceID != "" && r.ResourceID != "unknown",
		HasResourceName:   r.Name != "",
		HasResourceARN:    r.ARN != "",
		HasCorrectType:    r.ResourceType != "" && r.ResourceType != "Unknown",
		HasTags:           len(r.Tags) > 0,
		HasStatus:         r.Status != "" || r.State != "",
		HasCreationDate:   r.CreatedAt != nil,
		HasVPCInfo:        r.VPCID != "",
		HasSecurityGroups: len(r.SecurityGroupIDs) > 0,
		HasAccountID:      r.AccountID != "",
	}
}
