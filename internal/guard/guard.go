// Package guard implements the cloud-provider read-only operation allow-list
// (spec §6). It is the only interface the core exposes to security
// validation: a pure, lexical predicate over outgoing operation names.
package guard

import (
	"regexp"
	"strings"
)

// acronymBoundary splits a run of capitals immediately followed by a new
// capitalized word ("DBInstances" -> "DB_Instances"); lowerUpperBoundary
// splits a lowercase/digit run followed by a capital ("ListBuckets" ->
// "List_Buckets"). Together they convert an AWS SDK Go method name to its
// wire operation convention before the prefix check runs. No case-conversion
// library appears anywhere in the retrieved pack, so this is two small
// regexps rather than a dependency.
var (
	acronymBoundary    = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	lowerUpperBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// wireName converts a Go method name such as "DescribeDBInstances" to the
// AWS wire operation convention "describe_db_instances". Already-lower,
// already-snake_case input passes through unchanged.
func wireName(op string) string {
	s := acronymBoundary.ReplaceAllString(op, "${1}_${2}")
	s = lowerUpperBoundary.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

var allowedPrefixes = []string{
	"describe_", "list_", "get_", "head_", "lookup_",
	"download_", "simulate_", "detect_", "test_", "validate_", "check_",
}

var forbiddenPrefixes = []string{
	"create_", "delete_", "modify_", "update_", "put_", "attach_", "detach_",
	"associate_", "disassociate_", "start_", "stop_", "reboot_", "terminate_",
	"run_", "launch_", "allocate_", "release_", "authorize_", "revoke_",
	"enable_", "disable_", "register_", "deregister_", "import_", "export_",
	"copy_", "restore_", "reset_", "replace_", "cancel_", "accept_", "reject_",
}

// Allowed reports whether a call named op may be issued by Discovery. op may
// be either a Go SDK method name (e.g. "ListBuckets") or an already
// wire-form name (e.g. "list_buckets"); both convert to the same check.
// Names that match neither list are treated as forbidden, per spec.
func Allowed(op string) bool {
	name := wireName(op)
	for _, p := range forbiddenPrefixes {
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	for _, p := range allowedPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// AllowedPrefixes returns the allow-list, for callers that need to render it
// (e.g. a diagnostic report) without re-deriving it.
func AllowedPrefixes() []string {
	out := make([]string, len(allowedPrefixes))
	copy(out, allowedPrefixes)
	return out
}

// ForbiddenPrefixes returns the deny-list, for the same reason.
func ForbiddenPrefixes() []string {
	out := make([]string, len(forbiddenPrefixes))
	copy(out, forbiddenPrefixes)
	return out
}
