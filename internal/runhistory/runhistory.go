// Package runhistory is an optional, queryable index of past run
// statistics (spec §4.4's run record), backed by Postgres via GORM — the
// same ORM/driver pair the teacher's database_ package uses. It is never
// the source of truth for inventory data; that remains the file-based
// State Store (internal/state). When no DSN is configured, every
// operation here is a no-op, so the rest of the system never depends on
// Postgres being reachable.
package runhistory

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dillib/cloudbom/internal/errkind"
	"github.com/dillib/cloudbom/internal/orchestrator"
)

// RunRecord is one completed run's statistics, the GORM model backing the
// index (spec §4.4 "A run record is emitted with per-account statistics
// ... and global statistics").
type RunRecord struct {
	ID                   uint   `gorm:"primaryKey"`
	SnapshotID           string `gorm:"index"`
	StartedAt            time.Time
	FinishedAt           time.Time
	TotalAccounts        int
	SucceededAccounts    int
	FailedAccounts       int
	TotalResources       int
	TotalWarnings        int
	TotalErrors          int
	CompliancePercentage float64
}

// AccountRecord is one account's statistics within a run, a child row of
// RunRecord.
type AccountRecord struct {
	ID              uint `gorm:"primaryKey"`
	RunRecordID     uint `gorm:"index"`
	AccountID       string
	AccountName     string
	Status          string
	FailureReason   string
	ResourceCount   int
	ProcessingTimeMS int64
	Warnings        int
	Errors          int
}

// Index wraps a GORM connection; a nil DB makes every method a no-op,
// implementing the "optional, never load-bearing" requirement without
// forcing every caller to nil-check before calling in.
type Index struct {
	db *gorm.DB
}

// Open connects to dsn and auto-migrates the schema. An empty dsn returns a
// no-op Index rather than an error, since run-history indexing is optional.
func Open(dsn string) (*Index, error) {
	if dsn == "" {
		return &Index{}, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errkind.Wrap(errkind.UnexpectedError, err, "failed to open run history database")
	}

	if err := db.AutoMigrate(&RunRecord{}, &AccountRecord{}); err != nil {
		return nil, errkind.Wrap(errkind.UnexpectedError, err, "failed to migrate run history schema")
	}

	return &Index{db: db}, nil
}

// Record persists one run's statistics, derived from an orchestrator
// RunResult plus the compliance percentage and resulting snapshot id. A
// no-op Index silently returns nil, so callers don't need to special-case
// "run history disabled."
func (idx *Index) Record(result orchestrator.RunResult, snapshotID string, startedAt, finishedAt time.Time, compliancePercentage float64) error {
	if idx.db == nil {
		return nil
	}

	stats := result.Stats()
	run := RunRecord{
		SnapshotID:           snapshotID,
		StartedAt:            startedAt,
		FinishedAt:           finishedAt,
		TotalAccounts:        stats.TotalAccounts,
		SucceededAccounts:    stats.SucceededAccounts,
		FailedAccounts:       stats.FailedAccounts,
		TotalResources:       stats.TotalResources,
		TotalWarnings:        stats.TotalWarnings,
		TotalErrors:          stats.TotalErrors,
		CompliancePercentage: compliancePercentage,
	}

	if err := idx.db.Create(&run).Error; err != nil {
		return errkind.Wrap(errkind.UnexpectedError, err, "failed to save run record")
	}

	for _, acct := range result.Accounts {
		accountRecord := AccountRecord{
			RunRecordID:      run.ID,
			AccountID:        acct.AccountID,
			AccountName:      acct.AccountName,
			Status:           string(acct.Status),
			FailureReason:    acct.FailureReason,
			ResourceCount:    len(acct.Resources),
			ProcessingTimeMS: acct.Duration().Milliseconds(),
			Warnings:         acct.Warnings,
			Errors:           acct.Errors,
		}
		if err := idx.db.Create(&accountRecord).Error; err != nil {
			return errkind.Wrap(errkind.UnexpectedError, err, "failed to save account record")
		}
	}

	return nil
}

// List returns the most recent limit run records, newest first.
func (idx *Index) List(limit int) ([]RunRecord, error) {
	if idx.db == nil {
		return nil, nil
	}
	var runs []RunRecord
	if err := idx.db.Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, errkind.Wrap(errkind.UnexpectedError, err, "failed to list run history")
	}
	return runs, nil
}
