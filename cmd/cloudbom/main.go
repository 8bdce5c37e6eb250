// Command cloudbom runs one multi-account cloud inventory pass: discover,
// evaluate compliance, persist a snapshot, record run history, and
// optionally serve the read-only report API. Wiring mirrors the teacher's
// main.go: load config, build dependencies, start the server, wait for a
// termination signal, shut down cleanly.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dillib/cloudbom/internal/compliance"
	"github.com/dillib/cloudbom/internal/config"
	"github.com/dillib/cloudbom/internal/orchestrator"
	"github.com/dillib/cloudbom/internal/policy"
	"github.com/dillib/cloudbom/internal/report"
	"github.com/dillib/cloudbom/internal/runhistory"
	"github.com/dillib/cloudbom/internal/state"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	accounts, err := config.LoadAccounts(cfg.AccountsFile)
	if err != nil {
		logger.Fatal("failed to load accounts file", zap.Error(err))
	}
	if len(accounts) == 0 {
		logger.Fatal("no accounts configured", zap.String("accounts_file", cfg.AccountsFile))
	}

	policyData, err := os.ReadFile(cfg.PolicyFile)
	if err != nil {
		logger.Fatal("failed to read policy file", zap.Error(err))
	}
	ruleSet, err := policy.Load(policyData)
	if err != nil {
		logger.Fatal("failed to load policy document", zap.Error(err))
	}

	store, err := state.NewStore(cfg.StateDir, cfg.RetentionDays, cfg.MaxSnapshots, logger)
	if err != nil {
		logger.Fatal("failed to open state store", zap.Error(err))
	}

	history, err := runhistory.Open(cfg.RunHistoryDSN)
	if err != nil {
		logger.Fatal("failed to open run history index", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ReportAddr != "" {
		app := report.NewServer(store, cfg.AllowedOrigins)
		go func() {
			if err := app.Listen(cfg.ReportAddr); err != nil {
				logger.Error("report server stopped", zap.Error(err))
			}
		}()
		defer app.Shutdown()
	}

	go runOnce(ctx, cfg, accounts, ruleSet, store, history, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
}

// runOnce drives a single end-to-end pass: discover every configured
// account, evaluate compliance, persist the snapshot, and record run
// history. Errors are logged, never fatal, since a report server serving
// stale snapshots is still useful.
func runOnce(ctx context.Context, cfg *config.Config, accounts []orchestrator.AccountConfig, ruleSet policy.RuleSet, store *state.Store, history *runhistory.Index, logger *zap.Logger) {
	startedAt := time.Now()

	result := orchestrator.Schedule(ctx, accounts, cfg.MaxAccounts, cfg.MaxWorkers, logger)

	records, summary := compliance.Evaluate(result.Records, ruleSet)

	accountIDs := make([]string, 0, len(result.Accounts))
	regionSet := map[string]bool{}
	for _, acct := range result.Accounts {
		accountIDs = append(accountIDs, acct.AccountID)
		for _, r := range acct.RegionsProbed {
			regionSet[r] = true
		}
	}
	regions := make([]string, 0, len(regionSet))
	for r := range regionSet {
		regions = append(regions, r)
	}

	finishedAt := time.Now()

	snapshotID, err := store.Save(records, summary, accountIDs, regions, nil, finishedAt)
	if err != nil {
		logger.Error("failed to save snapshot", zap.Error(err))
		return
	}
	logger.Info("snapshot saved",
		zap.String("snapshot_id", snapshotID),
		zap.Int("total_resources", summary.Total),
		zap.Float64("compliance_percentage", summary.CompliancePercentage))

	if err := history.Record(result, snapshotID, startedAt, finishedAt, summary.CompliancePercentage); err != nil {
		logger.Error("failed to record run history", zap.Error(err))
	}
}
