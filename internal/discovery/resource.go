// Package discovery implements the pluggable, concurrent cloud-API crawler:
// per (account, service, region) enumeration, normalization, managed-resource
// filtering, and dependent-resource prediction.
package discovery

import (
	"encoding/json"
	"time"
)

// DiscoveryMethod explains how a record came to exist when it wasn't
// returned directly by a listing call.
type DiscoveryMethod string

const (
	MethodListing        DiscoveryMethod = "listing"
	MethodPrediction      DiscoveryMethod = "prediction"
	MethodEnumerateByTag  DiscoveryMethod = "enumerate-by-tag"
)

// SourceAccount is the provenance the Orchestrator attaches to every record
// it emits (spec §3).
type SourceAccount struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name,omitempty"`
}

// Resource is the single canonical in-memory entity every subsystem after
// Discovery operates on (spec §3).
type Resource struct {
	// Required
	ResourceID   string            `json:"resource_id"`
	ARN          string            `json:"arn,omitempty"`
	Service      string            `json:"service"`
	ResourceType string            `json:"resource_type"`
	Region       string            `json:"region"`
	AccountID    string            `json:"account_id"`
	Tags         map[string]string `json:"tags"`
	RawData      json.RawMessage   `json:"raw_data"`

	// Optional
	Name             string     `json:"name,omitempty"`
	Status           string     `json:"status,omitempty"`
	State            string     `json:"state,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	ModifiedAt       *time.Time `json:"modified_at,omitempty"`
	VPCID            string     `json:"vpc_id,omitempty"`
	SubnetIDs        []string   `json:"subnet_ids,omitempty"`
	SecurityGroupIDs []string   `json:"security_group_ids,omitempty"`
	Encrypted        *bool      `json:"encrypted,omitempty"`
	PublicAccess     *bool      `json:"public_access,omitempty"`
	ParentResource   string     `json:"parent_resource,omitempty"`
	ChildResources   []string   `json:"child_resources,omitempty"`
	Dependencies     []string   `json:"dependencies,omitempty"`
	ConfidenceScore  float64    `json:"confidence_score"`
	DiscoveryMethod  DiscoveryMethod `json:"discovery_method,omitempty"`
	Source           *SourceAccount  `json:"source,omitempty"`

	// Attached by the Compliance Evaluator (§4.5); absent before evaluation.
	ComplianceStatus string   `json:"compliance_status,omitempty"`
	Violations       []string `json:"violations,omitempty"`
}

// Key returns the stable identity used for uniqueness/dedup within a run
// (spec §3 invariant) and for delta identity (spec §4.7): ARN when present,
// else the compound account/service/region/type/id key.
func (r Resource) Key() string {
	if r.ARN != "" {
		return r.ARN
	}
	return r.AccountID + ":" + r.Service + ":" + r.Region + ":" + r.ResourceType + ":" + r.ResourceID
}

// DedupKey is the narrower (service, region, resource_id) key used inside a
// single discovery unit (spec §4.3 step 5), before account provenance or
// cross-unit identity is relevant.
func (r Resource) DedupKey() string {
	return r.Service + ":" + r.Region + ":" + r.ResourceID
}

// Validate enforces the invariants spec §3 names that aren't structurally
// guaranteed by the Go type (a blank ResourceID, or a provisional record
// with no explanation, are both caller bugs worth catching early).
func (r Resource) Validate() error {
	if r.ResourceID == "" {
		return errValidation("resource_id must not be blank")
	}
	if r.Region == "" {
		return errValidation("region must not be blank")
	}
	if r.Tags == nil {
		return errValidation("tags must be a non-nil mapping")
	}
	if r.ConfidenceScore < 1.0 && r.DiscoveryMethod == "" {
		return errValidation("confidence_score < 1.0 requires a non-empty discovery_method")
	}
	return nil
}

type validationError string

func (e validationError) Error() string { return string(e) }

func errValidation(msg string) error { return validationError(msg) }
