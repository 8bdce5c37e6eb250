package orchestrator

import "github.com/dillib/cloudbom/internal/discovery"

// Consolidate unions every account's records and applies the second-pass
// deduplication spec §4.4 names: by (account_id, service, region,
// resource_id). The first record encountered for a given key wins; order
// follows the accounts slice, which callers should already have in a
// stable order if reproducibility matters to them.
func Consolidate(accounts []AccountResult) RunResult {
	seen := map[string]bool{}
	var records []discovery.Resource

	for _, acct := range accounts {
		for _, r := range acct.Resources {
			key := acct.AccountID + ":" + r.Service + ":" + r.Region + ":" + r.ResourceID
			if seen[key] {
				continue
			}
			seen[key] = true
			records = append(records, r)
		}
	}

	return RunResult{Records: records, Accounts: accounts}
}
