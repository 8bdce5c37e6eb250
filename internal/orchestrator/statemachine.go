package orchestrator

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"go.uber.org/zap"

	"github.com/dillib/cloudbom/internal/discovery"
	"github.com/dillib/cloudbom/internal/discovery/awsbackend"
	"github.com/dillib/cloudbom/internal/errkind"
)

// RunAccountPipeline drives a single account through the state machine
// spec §4.4 defines: Pending → Authenticating → Probing → Discovering →
// Done, or Failed at any transition. It never panics or returns an error
// to the caller — every failure is captured in the returned AccountResult,
// so one account's trouble never aborts the run.
func RunAccountPipeline(ctx context.Context, acct AccountConfig, maxWorkers int, logger *zap.Logger) AccountResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	result := AccountResult{
		AccountID:   acct.AccountID,
		AccountName: acct.AccountName,
		Status:      Pending,
		StartedAt:   time.Now(),
	}

	fail := func(status Status, reason string, err error) AccountResult {
		result.Status = Failed
		if err != nil {
			result.FailureReason = reason + ": " + err.Error()
		} else {
			result.FailureReason = reason
		}
		result.Errors++
		result.FinishedAt = time.Now()
		logger.Warn("account pipeline failed",
			zap.String("account_id", acct.AccountID), zap.String("at_status", string(status)),
			zap.String("reason", result.FailureReason))
		return result
	}

	// Pending → Authenticating
	result.Status = Authenticating
	sess, err := BuildSession(acct)
	if err != nil {
		return fail(Authenticating, "authentication failed", err)
	}

	// Authenticating → Probing
	result.Status = Probing
	identity, err := GetCallerIdentity(sess)
	if err != nil {
		return fail(Probing, "failed to obtain caller identity", err)
	}
	if identity.AccountID != "" && identity.AccountID != acct.AccountID {
		return fail(Probing, "account mismatch", errkind.New(errkind.AccountMismatch,
			"caller identity account "+identity.AccountID+" does not match configured account "+acct.AccountID))
	}

	regions := probeRegions(sess, acct.Regions)
	if len(regions) == 0 {
		return fail(Probing, "no regions responded to probe", nil)
	}
	result.RegionsProbed = regions

	// Probing → Discovering
	result.Status = Discovering
	accountCtx, cancel := context.WithTimeout(ctx, discovery.AccountDeadline)
	defer cancel()

	backend := awsbackend.New(sess)
	engine := discovery.NewEngine(backend, logger)
	units := engine.RunAccount(accountCtx, regions, maxWorkers)
	if err := accountCtx.Err(); err != nil {
		return fail(Discovering, "discovery deadline exceeded or cancelled", err)
	}

	var primary []discovery.Resource
	serviceSeen := map[string]bool{}
	for _, u := range units {
		if u.Err != nil {
			result.Warnings++
			continue
		}
		serviceSeen[u.Service] = true
		primary = append(primary, u.Resources...)
	}
	for svc := range serviceSeen {
		result.ServicesProbed = append(result.ServicesProbed, svc)
	}

	predicted := discovery.PredictDependents(primary)
	all := mergePredicted(primary, predicted)

	// Discovering → Done: attach provenance to every emitted record.
	source := &discovery.SourceAccount{AccountID: acct.AccountID, AccountName: acct.AccountName}
	for i := range all {
		all[i].AccountID = acct.AccountID
		all[i].Source = source
	}

	result.Status = Done
	result.Resources = all
	result.FinishedAt = time.Now()
	return result
}

// probeRegions keeps the subset of candidateRegions that respond to a cheap
// listing call (spec §4.4 "probe each configured region with a cheap
// listing call; keep the subset that responds"). ec2:DescribeRegions is
// itself the cheapest available read-only call and works from any region's
// endpoint, so it doubles as the probe for every candidate region.
func probeRegions(sess *session.Session, candidateRegions []string) []string {
	if len(candidateRegions) == 0 {
		return nil
	}
	var responded []string
	for _, region := range candidateRegions {
		client := ec2.New(sess, aws.NewConfig().WithRegion(region))
		if _, err := client.DescribeRegions(&ec2.DescribeRegionsInput{}); err != nil {
			continue
		}
		responded = append(responded, region)
	}
	return responded
}

// mergePredicted appends predicted records, discarding any predicted record
// that collides with a real one by DedupKey (spec §4.3 "Predictor").
func mergePredicted(primary, predicted []discovery.Resource) []discovery.Resource {
	seen := map[string]bool{}
	for _, r := range primary {
		seen[r.DedupKey()] = true
	}
	out := append([]discovery.Resource(nil), primary...)
	for _, p := range predicted {
		if seen[p.DedupKey()] {
			continue
		}
		seen[p.DedupKey()] = true
		out = append(out, p)
	}
	return out
}
