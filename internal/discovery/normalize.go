package discovery

import (
	"encoding/json"
	"strings"
)

// typeFromOperation derives a resource type from a listing operation's name
// (e.g. "ListDistributions" -> "Distribution"), per spec §4.2. It strips the
// leading verb and the plural ending, then returns the pattern's declared
// resource type that matches case-insensitively ("DescribeVpcs" -> "VPC",
// "ListPolicies" -> "Policy"), else the stripped name.
func typeFromOperation(operation string, pattern ServicePattern) string {
	for _, verb := range []string{"List", "Describe", "Get"} {
		if strings.HasPrefix(operation, verb) {
			rest := strings.TrimPrefix(operation, verb)
			if len(pattern.ResourceTypes) == 1 {
				return pattern.ResourceTypes[0]
			}
			singular := strings.TrimSuffix(rest, "s")
			for _, candidate := range []string{singular, strings.TrimSuffix(rest, "ies") + "y", strings.TrimSuffix(rest, "es")} {
				for _, t := range pattern.ResourceTypes {
					if strings.EqualFold(t, candidate) {
						return t
					}
				}
			}
			return singular
		}
	}
	if len(pattern.ResourceTypes) > 0 {
		return pattern.ResourceTypes[0]
	}
	return "Unknown"
}

// BuildResource normalizes one raw provider payload into a Resource (spec
// §4.2 "Normalization produces a Resource record from a raw payload").
func BuildResource(item RawItem, service, region string, mapper *FieldMapper) (Resource, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item.Payload, &fields); err != nil {
		return Resource{}, false
	}

	pattern, _ := mapper.Pattern(service)

	id := extractID(fields, pattern.NameFields)
	if id == "" {
		return Resource{}, false
	}

	tags := tagsFromFields(fields)
	name := tags["Name"]
	if name == "" {
		name = extractString(fields, pattern.NameFields)
	}
	if name == "" {
		name = id
	}

	res := Resource{
		ResourceID:   id,
		Name:         name,
		Service:      service,
		ResourceType: typeFromOperation(item.Operation, pattern),
		Region:       regionFromFields(fields, region),
		Tags:         tags,
		RawData:      item.Payload,
		ARN:          extractString(fields, []string{"Arn", "ARN", "arn"}),
		Status:       extractString(fields, []string{"Status", "status"}),
		State:        extractState(fields),
		VPCID:        extractString(fields, []string{"VpcId"}),
		AccountID:    extractString(fields, []string{"AccountId", "OwnerId", "accountId"}),
	}
	return res, true
}

func extractID(fields map[string]json.RawMessage, nameFields []string) string {
	for _, f := range nameFields {
		if v := extractString(fields, []string{f}); v != "" {
			return v
		}
	}
	return extractString(fields, []string{"Id", "id", "ARN", "Arn"})
}

func extractString(fields map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func extractState(fields map[string]json.RawMessage) string {
	raw, ok := fields["State"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var nested struct {
		Name string `json:"Name"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested.Name
	}
	return ""
}

func tagsFromFields(fields map[string]json.RawMessage) map[string]string {
	if raw, ok := fields["Tags"]; ok {
		return NormalizeTags(raw)
	}
	if raw, ok := fields["tags"]; ok {
		return NormalizeTags(raw)
	}
	if raw, ok := fields["Labels"]; ok {
		return NormalizeTags(raw)
	}
	return map[string]string{}
}

// regionFromFields implements the region hint priority: explicit "Region"
// field, availability-zone truncation, placement block, else the region
// the listing was issued in (spec §4.2 "Region").
func regionFromFields(fields map[string]json.RawMessage, fallback string) string {
	if v := extractString(fields, []string{"Region"}); v != "" {
		return v
	}
	if az := extractString(fields, []string{"AvailabilityZone"}); len(az) > 2 {
		return az[:len(az)-1]
	}
	if raw, ok := fields["Placement"]; ok {
		var placement struct {
			AvailabilityZone string `json:"AvailabilityZone"`
		}
		if err := json.Unmarshal(raw, &placement); err == nil && len(placement.AvailabilityZone) > 2 {
			return placement.AvailabilityZone[:len(placement.AvailabilityZone)-1]
		}
	}
	return fallback
}

// DetectRegion resolves the true home region for a resource whose listing
// region is only a default (spec §4.2 "requires_region_detection", e.g.
// S3's bucket->location lookup). Backends pass the raw payload's location
// hint; a "null" location constraint means us-east-1, and a payload with no
// hint keeps fallback.
func DetectRegion(item RawItem, fallback string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item.Payload, &fields); err != nil {
		return fallback
	}
	if v := extractString(fields, []string{"LocationConstraint", "Region"}); v != "" {
		if v == "null" {
			return "us-east-1"
		}
		return v
	}
	return fallback
}
