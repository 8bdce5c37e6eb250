// Package billinghint supplies an optional, never-load-bearing monthly
// spend figure per cloud account. Spec §1's non-goals forbid treating
// billing data as anything the Orchestrator or Compliance Evaluator depend
// on; a Hint is attached to a run's output purely for operator context.
package billinghint

import "context"

// Hint is the one piece of information a Provider contributes: current
// month-to-date spend, in a single currency, plus enough provenance to
// explain where the number came from.
type Hint struct {
	Provider     string
	AccountID    string
	MonthlySpend float64
	Currency     string
	Note         string
}

// Provider fetches a billing Hint for one account. A Provider returning an
// error never fails a discovery run: callers log the failure and proceed
// without a hint (spec §1, "optional billing hint").
type Provider interface {
	Name() string
	FetchHint(ctx context.Context) (Hint, error)
}

// FetchAll runs every configured provider and returns whatever hints
// succeeded. A provider that returns an error is skipped without logging
// and without failing the call.
func FetchAll(ctx context.Context, providers []Provider) []Hint {
	var hints []Hint
	for _, p := range providers {
		hint, err := p.FetchHint(ctx)
		if err != nil {
			continue
		}
		hints = append(hints, hint)
	}
	return hints
}
