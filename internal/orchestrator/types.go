// Package orchestrator implements the Multi-Account Orchestrator (spec
// §4.4): a per-account state machine, across-account scheduling pool, and
// final consolidation pass over every account's discovered records.
package orchestrator

import (
	"time"

	"github.com/dillib/cloudbom/internal/discovery"
)

// Status is an account's position in the state machine (spec §4.4).
type Status string

const (
	Pending       Status = "pending"
	Authenticating Status = "authenticating"
	Probing       Status = "probing"
	Discovering   Status = "discovering"
	Done          Status = "done"
	Failed        Status = "failed"
)

// AccountConfig names one account to process. Exactly one credential path
// should be populated; BuildSession tries them in the priority order spec
// §4.4 names: Profile, then AccessKeyID/SecretAccessKey, then RoleARN (via
// the default session), then a conventional cross-account role name.
type AccountConfig struct {
	AccountID        string   `yaml:"account_id" json:"account_id"`
	AccountName      string   `yaml:"account_name" json:"account_name"`
	Profile          string   `yaml:"profile" json:"profile"`
	AccessKeyID      string   `yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey  string   `yaml:"secret_access_key" json:"secret_access_key"`
	SessionToken     string   `yaml:"session_token" json:"session_token"`
	RoleARN          string   `yaml:"role_arn" json:"role_arn"`
	ExternalID       string   `yaml:"external_id" json:"external_id"`
	CrossAccountRole string   `yaml:"cross_account_role" json:"cross_account_role"`
	Regions          []string `yaml:"regions" json:"regions"`
}

// AccountResult is one account's terminal state after the pipeline runs.
type AccountResult struct {
	AccountID       string
	AccountName     string
	Status          Status
	FailureReason   string
	Resources       []discovery.Resource
	RegionsProbed   []string
	ServicesProbed  []string
	StartedAt       time.Time
	FinishedAt      time.Time
	Warnings        int
	Errors          int
}

// Duration is how long this account's pipeline ran, for the run record's
// per-account processing-time statistic.
func (r AccountResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunResult is the consolidated output of a full multi-account run (spec
// §4.4 "Consolidation").
type RunResult struct {
	Records  []discovery.Resource
	Accounts []AccountResult
}

// GlobalStats summarizes a RunResult the way spec §4.4's run record names:
// per-account statistics plus totals across the run.
type GlobalStats struct {
	TotalAccounts   int
	SucceededAccounts int
	FailedAccounts  int
	TotalResources  int
	TotalWarnings   int
	TotalErrors     int
}

// Stats computes GlobalStats from a RunResult.
func (r RunResult) Stats() GlobalStats {
	var s GlobalStats
	s.TotalAccounts = len(r.Accounts)
	s.TotalResources = len(r.Records)
	for _, a := range r.Accounts {
		if a.Status == Done {
			s.SucceededAccounts++
		} else if a.Status == Failed {
			s.FailedAccounts++
		}
		s.TotalWarnings += a.Warnings
		s.TotalErrors += a.Errors
	}
	return s
}
