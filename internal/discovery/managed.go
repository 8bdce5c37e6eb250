package discovery

import (
	"encoding/json"
	"strings"
)

// IsManagedResource decides whether a built Resource is a provider-managed
// artifact that should be dropped before it ever reaches the rest of the
// pipeline (spec §4.4). It transcribes _is_aws_managed_resource's layered
// checks: service opt-out, excluded resource type, service-specific name
// pattern, global name pattern, then a handful of per-service special cases.
func (m *FieldMapper) IsManagedResource(r Resource) bool {
	pattern, ok := m.patterns[r.Service]
	if !ok || !pattern.ExcludeAWSManaged {
		return false
	}

	for _, excluded := range pattern.ExcludeResourceTypes {
		if r.ResourceType == excluded {
			return true
		}
	}

	for _, re := range pattern.ManagedPatterns {
		if re.MatchString(r.ResourceID) {
			return true
		}
	}

	for _, re := range globalManagedPatterns {
		if re.MatchString(r.ResourceID) {
			return true
		}
	}

	switch r.Service {
	case "iam":
		return isManagedIAM(r)
	case "route53":
		return isManagedRoute53(r)
	case "ec2":
		return isManagedEC2(r)
	}

	return false
}

func isManagedIAM(r Resource) bool {
	if r.ResourceType == "Policy" {
		if strings.Contains(r.ARN, ":policy/aws-service-role/") || strings.Contains(r.ARN, ":policy/service-role/") {
			return true
		}
		if strings.HasPrefix(r.ARN, "arn:aws:iam::aws:policy/") {
			return true
		}
	}

	if r.ResourceType == "Role" {
		var raw struct {
			Path                    string `json:"Path"`
			AssumeRolePolicyDocument string `json:"AssumeRolePolicyDocument"`
		}
		if err := json.Unmarshal(r.RawData, &raw); err == nil {
			if strings.HasPrefix(raw.Path, "/aws-service-role/") || strings.HasPrefix(raw.Path, "/service-role/") {
				return true
			}
			if raw.AssumeRolePolicyDocument != "" && strings.Contains(raw.AssumeRolePolicyDocument, "amazonaws.com") {
				var policy struct {
					Statement []struct {
						Principal struct {
							Service string `json:"Service"`
						} `json:"Principal"`
					} `json:"Statement"`
				}
				if err := json.Unmarshal([]byte(raw.AssumeRolePolicyDocument), &policy); err == nil {
					for _, s := range policy.Statement {
						if strings.HasSuffix(s.Principal.Service, ".amazonaws.com") {
							return true
						}
					}
				}
			}
		}
	}

	return false
}

func isManagedRoute53(r Resource) bool {
	if r.ResourceType == "GeoLocation" {
		return true
	}
	if r.ResourceType == "HostedZone" {
		if strings.HasSuffix(r.Name, ".in-addr.arpa.") || strings.HasSuffix(r.Name, ".ip6.arpa.") {
			return true
		}
	}
	return false
}

func isManagedEC2(r Resource) bool {
	var raw struct {
		IsDefault bool   `json:"IsDefault"`
		GroupName string `json:"GroupName"`
	}
	if err := json.Unmarshal(r.RawData, &raw); err != nil {
		return false
	}
	if (r.ResourceType == "VPC" || r.ResourceType == "SecurityGroup") && raw.IsDefault {
		return true
	}
	if r.ResourceType == "SecurityGroup" && raw.GroupName == "default" {
		return true
	}
	return false
}
