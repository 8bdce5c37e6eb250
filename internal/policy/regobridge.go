package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/rego"

	"github.com/dillib/cloudbom/internal/errkind"
)

// GenerateRego renders a RuleSet's global required-tag rule into a Rego
// module, in the style of the teacher's policygen.GenerateRego template
// functions: a fixed package, a `required_tags` array literal, and an
// `allow`/`violation`/`msg` rule triad.
//
// The rendered module only covers the global required set; per-service
// overrides and exemptions are deliberately out of its scope — it exists
// as an independent cross-check on the primary classifier, not a full
// reimplementation, so it is cheap to keep in sync by hand.
func GenerateRego(rs RuleSet) string {
	var keys []string
	for _, rule := range rs.Required {
		keys = append(keys, fmt.Sprintf("%q", rule.Key))
	}
	tagsList := strings.Join(keys, ", ")

	return fmt.Sprintf(`package cloudbom.tagpolicy

default allow = false

required_tags = [%s]

allow {
	count(missing_tags) == 0
}

missing_tags = [tag |
	tag := required_tags[_]
	not input.tags[tag]
]

violation {
	count(missing_tags) > 0
}

msg = m {
	missing := missing_tags[_]
	m := sprintf("missing required tag: %%s", [missing])
}`, tagsList)
}

// RegoCrossCheck evaluates a subject's tag set against the generated Rego
// module's "allow" rule, independently of Classify, using the in-process
// opa/rego evaluator (no bundle service, no network I/O — the teacher's
// opa/sdk Engine performs bundle fetches the Compliance Evaluator's purity
// requirement forbids). It is an optional audit aid: it neither logs nor
// changes Classify's result, since only Classify is canonical; callers
// compare the two verdicts with Agrees.
func RegoCrossCheck(ctx context.Context, rs RuleSet, subject Subject) (allowed bool, err error) {
	module := GenerateRego(rs)

	query, err := rego.New(
		rego.Query("data.cloudbom.tagpolicy.allow"),
		rego.Module("cloudbom_tagpolicy.rego", module),
	).PrepareForEval(ctx)
	if err != nil {
		return false, errkind.Wrap(errkind.InvalidPolicy, err, "failed to prepare rego cross-check")
	}

	input := map[string]any{"tags": subject.Tags}
	results, err := query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, errkind.Wrap(errkind.UnexpectedError, err, "rego cross-check evaluation failed")
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	allow, _ := results[0].Expressions[0].Value.(bool)
	return allow, nil
}

// Agrees reports whether the Rego cross-check's allow/deny verdict matches
// Classify's compliant/non-compliant verdict for the global required set
// (ignoring overrides and exemptions, which the cross-check does not
// model). Callers use this to flag drift between the two, not to decide
// compliance.
func Agrees(classification Classification, regoAllowed bool) bool {
	classifyAllowed := classification.Status == Compliant
	return classifyAllowed == regoAllowed
}
