package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/dillib/cloudbom/internal/discovery"
)

// sortedRecords returns a copy of records in the stable order spec §5
// requires for the final consolidated set: account_id, service, region,
// resource_type, resource_id. Concurrent discovery order must never leak
// into persisted output, so every snapshot write goes through this first.
func sortedRecords(records []discovery.Resource) []discovery.Resource {
	out := make([]discovery.Resource, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AccountID != b.AccountID {
			return a.AccountID < b.AccountID
		}
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.ResourceType != b.ResourceType {
			return a.ResourceType < b.ResourceType
		}
		return a.ResourceID < b.ResourceID
	})
	return out
}

// canonicalize renders the sorted record list as stable JSON: map keys are
// already sorted by encoding/json, struct field order matches declaration
// order, and timestamps are normalized to UTC before encoding — together
// satisfying spec §4.6's "stable JSON with sorted keys, fixed number
// formatting, and UTC timestamps" contract without a third-party canonical-
// JSON library, since none in the retrieved pack targets this narrower need
// and stdlib encoding/json already provides deterministic map-key ordering.
func canonicalize(records []discovery.Resource) ([]byte, error) {
	sorted := sortedRecords(records)
	for i := range sorted {
		if sorted[i].CreatedAt != nil {
			utc := sorted[i].CreatedAt.UTC()
			sorted[i].CreatedAt = &utc
		}
		if sorted[i].ModifiedAt != nil {
			utc := sorted[i].ModifiedAt.UTC()
			sorted[i].ModifiedAt = &utc
		}
	}
	return json.Marshal(sorted)
}

// checksum computes the hex SHA-256 digest over the canonical serialization
// of records, per spec §4.6: "the checksum is over the sorted record list
// only, not over user tags or id." crypto/sha256 is stdlib, matching the
// pack's own use of it for content hashing (e.g. r3e-network-service_layer's
// envelope/repository packages) rather than pulling in a third-party hash
// library for a one-line digest.
func checksum(records []discovery.Resource) (string, error) {
	canonical, err := canonicalize(records)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
