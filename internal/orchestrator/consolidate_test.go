package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dillib/cloudbom/internal/discovery"
)

func TestConsolidate_DedupsAcrossAccountsByCompoundKey(t *testing.T) {
	accounts := []AccountResult{
		{
			AccountID: "111", Status: Done,
			Resources: []discovery.Resource{
				{ResourceID: "i-1", Service: "ec2", Region: "us-east-1", AccountID: "111"},
			},
		},
		{
			AccountID: "111", Status: Done,
			Resources: []discovery.Resource{
				{ResourceID: "i-1", Service: "ec2", Region: "us-east-1", AccountID: "111"},
				{ResourceID: "i-2", Service: "ec2", Region: "us-east-1", AccountID: "111"},
			},
		},
	}

	result := Consolidate(accounts)

	assert.Len(t, result.Records, 2)
}

func TestConsolidate_KeepsSameResourceIDAcrossDistinctAccounts(t *testing.T) {
	accounts := []AccountResult{
		{AccountID: "111", Status: Done, Resources: []discovery.Resource{
			{ResourceID: "i-1", Service: "ec2", Region: "us-east-1", AccountID: "111"},
		}},
		{AccountID: "222", Status: Done, Resources: []discovery.Resource{
			{ResourceID: "i-1", Service: "ec2", Region: "us-east-1", AccountID: "222"},
		}},
	}

	result := Consolidate(accounts)

	assert.Len(t, result.Records, 2)
}

func TestRunResult_StatsCountsSucceededAndFailed(t *testing.T) {
	result := RunResult{
		Accounts: []AccountResult{
			{Status: Done, Warnings: 1},
			{Status: Failed, Errors: 2},
			{Status: Done},
		},
		Records: make([]discovery.Resource, 5),
	}

	stats := result.Stats()

	assert.Equal(t, 3, stats.TotalAccounts)
	assert.Equal(t, 2, stats.SucceededAccounts)
	assert.Equal(t, 1, stats.FailedAccounts)
	assert.Equal(t, 5, stats.TotalResources)
	assert.Equal(t, 1, stats.TotalWarnings)
	assert.Equal(t, 2, stats.TotalErrors)
}

func TestMergePredicted_DiscardsCollisionsWithRealRecords(t *testing.T) {
	primary := []discovery.Resource{
		{ResourceID: "fn-1", Service: "lambda", Region: "us-east-1"},
	}
	predicted := []discovery.Resource{
		{ResourceID: "fn-1", Service: "lambda", Region: "us-east-1", DiscoveryMethod: discovery.MethodPrediction},
		{ResourceID: "/aws/lambda/fn-1", Service: "logs", Region: "us-east-1", DiscoveryMethod: discovery.MethodPrediction},
	}

	merged := mergePredicted(primary, predicted)

	assert.Len(t, merged, 2)
	assert.Equal(t, discovery.DiscoveryMethod(""), merged[0].DiscoveryMethod)
	assert.Equal(t, discovery.MethodPrediction, merged[1].DiscoveryMethod)
}

func TestProbeRegions_EmptyCandidatesReturnsNilWithoutNetworkCall(t *testing.T) {
	regions := probeRegions(nil, nil)

	assert.Empty(t, regions)
}
