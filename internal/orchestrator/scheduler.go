package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// defaultMaxConcurrentAccounts is the account-pool size spec §5 names as
// the default.
const defaultMaxConcurrentAccounts = 4

// defaultMaxWorkersPerAccount is the per-account service/region pool size
// spec §5 names as the default.
const defaultMaxWorkersPerAccount = 4

// accountTimeout bounds a single account's whole pipeline, distinct from
// discovery.AccountDeadline which only bounds the Discovering step;
// spec §4.4 "subject to a total timeout (default 30 min) after which it
// is cancelled and recorded as Failed(Timeout)."
const accountTimeout = 30 * time.Minute

// Schedule runs every account's pipeline across a worker pool sized by
// maxConcurrentAccounts (0 selects the default), consolidates the results,
// and returns the full RunResult. A ctx cancellation propagates to every
// outstanding account, and in turn to that account's inner Discovery units,
// since RunAccountPipeline derives its own account-scoped context from ctx.
func Schedule(ctx context.Context, accounts []AccountConfig, maxConcurrentAccounts, maxWorkersPerAccount int, logger *zap.Logger) RunResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxConcurrentAccounts <= 0 {
		maxConcurrentAccounts = defaultMaxConcurrentAccounts
	}
	if maxWorkersPerAccount <= 0 {
		maxWorkersPerAccount = defaultMaxWorkersPerAccount
	}

	results := make([]AccountResult, len(accounts))
	sem := semaphore.NewWeighted(int64(maxConcurrentAccounts))
	g, gctx := errgroup.WithContext(ctx)

	for i, acct := range accounts {
		i, acct := i, acct
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					results[i] = AccountResult{
						AccountID: acct.AccountID, AccountName: acct.AccountName,
						Status: Failed, FailureReason: "unexpected panic in account pipeline", Errors: 1,
					}
				}
			}()
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = AccountResult{
					AccountID: acct.AccountID, AccountName: acct.AccountName,
					Status: Failed, FailureReason: "cancelled before start: " + err.Error(),
				}
				return nil
			}
			defer sem.Release(1)

			acctCtx, cancel := context.WithTimeout(gctx, accountTimeout)
			defer cancel()

			result := RunAccountPipeline(acctCtx, acct, maxWorkersPerAccount, logger)
			if acctCtx.Err() != nil && result.Status != Done {
				result.Status = Failed
				result.FailureReason = "account timeout exceeded"
			}
			results[i] = result
			return nil
		})
	}
	// Per-account failures never abort the pool; g.Wait()'s error is always nil.
	_ = g.Wait()

	return Consolidate(results)
}
