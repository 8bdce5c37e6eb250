// Package state implements the State Store (spec §4.6): content-addressed
// snapshot persistence under a configured directory, with retention pruning
// and integrity validation.
package state

import (
	"time"

	"github.com/dillib/cloudbom/internal/compliance"
	"github.com/dillib/cloudbom/internal/discovery"
)

// Snapshot is the on-disk unit the State Store persists (spec §3/§6). Once
// built by Save, a Snapshot is never mutated.
type Snapshot struct {
	SnapshotID        string                `json:"snapshot_id"`
	CreatedAt         time.Time             `json:"created_at"`
	AccountIDs        []string              `json:"account_ids"`
	Regions           []string              `json:"regions"`
	Checksum          string                `json:"checksum"`
	Tags              map[string]string     `json:"tags"`
	ComplianceSummary compliance.Summary    `json:"compliance_summary"`
	Records           []discovery.Resource  `json:"records"`
}

// Meta is the lightweight listing view returned by List, carrying enough to
// render a snapshot index without loading every record set into memory.
type Meta struct {
	SnapshotID        string             `json:"snapshot_id"`
	CreatedAt         time.Time          `json:"created_at"`
	AccountIDs        []string           `json:"account_ids"`
	Regions           []string           `json:"regions"`
	Checksum          string             `json:"checksum"`
	ResourceCount     int                `json:"resource_count"`
	ComplianceSummary compliance.Summary `json:"compliance_summary"`
}

func (s Snapshot) meta() Meta {
	return Meta{
		SnapshotID:        s.SnapshotID,
		CreatedAt:         s.CreatedAt,
		AccountIDs:        s.AccountIDs,
		Regions:           s.Regions,
		Checksum:          s.Checksum,
		ResourceCount:     len(s.Records),
		ComplianceSummary: s.ComplianceSummary,
	}
}
