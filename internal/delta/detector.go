// Package delta implements the Delta Detector and Changelog Generator
// (spec §4.7/§4.8): a pure, deterministic diff between two record sets and
// a Markdown rendering of that diff.
package delta

import (
	"encoding/json"
	"sort"

	"github.com/dillib/cloudbom/internal/discovery"
)

// defaultAttributes is the attribute whitelist a modified-record field diff
// is restricted to when the caller doesn't supply its own (spec §4.7 step
// 3 default list).
var defaultAttributes = []string{
	"tags", "status", "state", "security_group_ids",
	"public_access", "encrypted", "parent_resource", "child_resources",
	"dependencies",
}

// FieldChange is one attribute's before/after value inside a Modified entry.
type FieldChange struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// Modified is one record whose identity is unchanged but whose watched
// attributes differ between snapshots.
type Modified struct {
	Key     string        `json:"key"`
	Changes []FieldChange `json:"changes"`
}

// Delta is the full comparison result between two record sets (spec §3/§6).
type Delta struct {
	SnapshotIDBefore string     `json:"snapshot_id_before"`
	SnapshotIDAfter  string     `json:"snapshot_id_after"`
	Added            []string   `json:"added"`
	Removed          []string   `json:"removed"`
	Modified         []Modified `json:"modified"`
	UnchangedCount   int        `json:"unchanged_count"`
}

// Detect computes the delta between before and after, keyed by
// discovery.Resource.Key() (ARN when present, else the compound identity;
// spec §4.7 step 5 prefers ARN as identity whenever one is present).
// attributes overrides the watched field whitelist; pass nil for the
// spec's default set. Detect is pure and deterministic: identical inputs
// in either record order produce an identical Delta.
func Detect(beforeID, afterID string, before, after []discovery.Resource, attributes []string) Delta {
	if attributes == nil {
		attributes = defaultAttributes
	}

	beforeByKey := indexByKey(before)
	afterByKey := indexByKey(after)

	d := Delta{SnapshotIDBefore: beforeID, SnapshotIDAfter: afterID}

	for key := range afterByKey {
		if _, ok := beforeByKey[key]; !ok {
			d.Added = append(d.Added, key)
		}
	}
	for key := range beforeByKey {
		if _, ok := afterByKey[key]; !ok {
			d.Removed = append(d.Removed, key)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)

	for key, beforeResource := range beforeByKey {
		afterResource, ok := afterByKey[key]
		if !ok {
			continue
		}
		changes := diffAttributes(beforeResource, afterResource, attributes)
		if len(changes) == 0 {
			d.UnchangedCount++
			continue
		}
		d.Modified = append(d.Modified, Modified{Key: key, Changes: changes})
	}
	sort.Slice(d.Modified, func(i, j int) bool { return d.Modified[i].Key < d.Modified[j].Key })

	return d
}

func indexByKey(records []discovery.Resource) map[string]discovery.Resource {
	out := make(map[string]discovery.Resource, len(records))
	for _, r := range records {
		out[r.Key()] = r
	}
	return out
}

// diffAttributes restricts the comparison to the whitelist and emits one
// FieldChange per differing attribute. Map-valued attributes (tags) are
// expanded into added/removed/modified-entries sub-groups (spec §4.7 step
// 4); list-valued attributes use order-independent set-difference.
func diffAttributes(before, after discovery.Resource, attributes []string) []FieldChange {
	var changes []FieldChange
	for _, attr := range attributes {
		oldVal := attributeValue(before, attr)
		newVal := attributeValue(after, attr)
		if fieldEqual(attr, oldVal, newVal) {
			continue
		}
		changes = append(changes, FieldChange{Field: attr, Old: oldVal, New: newVal})
	}
	return changes
}

func attributeValue(r discovery.Resource, attr string) any {
	switch attr {
	case "tags":
		return r.Tags
	case "status":
		return r.Status
	case "state":
		return r.State
	case "security_group_ids":
		return r.SecurityGroupIDs
	case "public_access":
		return r.PublicAccess
	case "encrypted":
		return r.Encrypted
	case "parent_resource":
		return r.ParentResource
	case "child_resources":
		return r.ChildResources
	case "dependencies":
		return r.Dependencies
	default:
		return nil
	}
}

// fieldEqual compares two attribute values using the semantics spec §4.7
// step 4 calls for: map and list attributes compare as sets/entries
// (order-independent), everything else compares by canonical JSON
// encoding (covers the *bool and plain-string cases uniformly).
func fieldEqual(attr string, oldVal, newVal any) bool {
	switch attr {
	case "tags":
		return tagsEqual(oldVal, newVal)
	case "security_group_ids", "child_resources", "dependencies":
		return stringSetEqual(oldVal, newVal)
	default:
		oldJSON, _ := json.Marshal(oldVal)
		newJSON, _ := json.Marshal(newVal)
		return string(oldJSON) == string(newJSON)
	}
}

func tagsEqual(oldVal, newVal any) bool {
	oldTags, _ := oldVal.(map[string]string)
	newTags, _ := newVal.(map[string]string)
	if len(oldTags) != len(newTags) {
		return false
	}
	for k, v := range oldTags {
		if newTags[k] != v {
			return false
		}
	}
	return true
}

func stringSetEqual(oldVal, newVal any) bool {
	oldList, _ := oldVal.([]string)
	newList, _ := newVal.([]string)
	if len(oldList) != len(newList) {
		return false
	}
	oldSet := make(map[string]bool, len(oldList))
	for _, v := range oldList {
		oldSet[v] = true
	}
	for _, v := range newList {
		if !oldSet[v] {
			return false
		}
	}
	return true
}

// TagChanges expands a tags FieldChange into the three sub-groups spec
// §4.7 step 4 names: added entries, removed entries, and modified entries
// (same key, different value).
func TagChanges(change FieldChange) (added, removed, modified map[string]string) {
	oldTags, _ := change.Old.(map[string]string)
	newTags, _ := change.New.(map[string]string)
	added = map[string]string{}
	removed = map[string]string{}
	modified = map[string]string{}

	for k, v := range newTags {
		old, existed := oldTags[k]
		switch {
		case !existed:
			added[k] = v
		case old != v:
			modified[k] = v
		}
	}
	for k, v := range oldTags {
		if _, stillPresent := newTags[k]; !stillPresent {
			removed[k] = v
		}
	}
	return added, removed, modified
}
