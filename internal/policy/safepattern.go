package policy

import (
	"regexp"
	"time"

	"github.com/dillib/cloudbom/internal/errkind"
)

// maxPatternCompileTime bounds how long regex compilation may take before
// the Policy Loader rejects the document; spec §4.1 requires "reject
// patterns whose compilation exceeds a fixed cost or runtime."
const maxPatternCompileTime = 50 * time.Millisecond

// maxPatternLength is the bound on raw pattern source length. Pathological
// patterns (catastrophic backtracking candidates) tend to be long before
// they're expensive; Go's RE2 engine has no backtracking blowup, but a
// length cap still protects against unbounded memory use from adversarial
// input.
const maxPatternLength = 512

// compileSafe compiles a user-supplied regex pattern with a bounded cost
// check. RE2 (Go's regexp engine) guarantees linear-time matching, so the
// runtime risk spec §4.1 names is compile-time cost, not catastrophic
// backtracking; this still measures wall-clock compilation time as the
// simplest faithful bound.
func compileSafe(pattern string) (*regexp.Regexp, error) {
	if len(pattern) > maxPatternLength {
		return nil, errkind.New(errkind.InvalidPolicy, "pattern exceeds maximum length")
	}

	type result struct {
		re  *regexp.Regexp
		err error
	}
	done := make(chan result, 1)
	go func() {
		re, err := regexp.Compile(pattern)
		done <- result{re, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, errkind.Wrap(errkind.InvalidPolicy, r.err, "invalid regex pattern")
		}
		return r.re, nil
	case <-time.After(maxPatternCompileTime):
		return nil, errkind.New(errkind.InvalidPolicy, "pattern compilation exceeded time budget")
	}
}
