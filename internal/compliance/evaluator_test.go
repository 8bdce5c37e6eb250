package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dillib/cloudbom/internal/discovery"
	"github.com/dillib/cloudbom/internal/policy"
)

func TestEvaluate_ScenarioA_SingleAccountHappyPath(t *testing.T) {
	rs := policy.RuleSet{Required: []policy.TagRule{{Key: "Environment"}, {Key: "Owner"}}}
	records := []discovery.Resource{
		{
			ResourceID: "i-1", Service: "ec2", ResourceType: "Instance", Region: "us-east-1", AccountID: "111",
			Tags: map[string]string{"Environment": "production", "Owner": "team-a"},
		},
		{
			ResourceID: "bucket-1", Service: "s3", ResourceType: "Bucket", Region: "us-east-1", AccountID: "111",
			Tags: map[string]string{"Environment": "production"},
		},
		{
			ResourceID: "db-1", Service: "rds", ResourceType: "DBInstance", Region: "us-east-1", AccountID: "111",
			Tags: map[string]string{},
		},
	}

	updated, summary := Evaluate(records, rs)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Compliant)
	assert.Equal(t, 1, summary.NonCompliant)
	assert.Equal(t, 1, summary.Untagged)
	assert.InDelta(t, 33.33, summary.CompliancePercentage, 0.01)

	assert.Equal(t, "compliant", updated[0].ComplianceStatus)
	assert.Equal(t, "non_compliant", updated[1].ComplianceStatus)
	assert.Equal(t, []string{"missing:Owner"}, updated[1].Violations)
	assert.Equal(t, "untagged", updated[2].ComplianceStatus)
}

func TestEvaluate_DoesNotMutateInputSlice(t *testing.T) {
	rs := policy.RuleSet{Required: []policy.TagRule{{Key: "Owner"}}}
	records := []discovery.Resource{
		{ResourceID: "i-1", Service: "ec2", ResourceType: "Instance", Tags: map[string]string{}},
	}

	_, _ = Evaluate(records, rs)

	assert.Empty(t, records[0].ComplianceStatus)
}

func TestEvaluate_EmptyRecordSetYieldsZeroSummaryNoDivideByZero(t *testing.T) {
	rs := policy.RuleSet{Required: []policy.TagRule{{Key: "Owner"}}}

	updated, summary := Evaluate(nil, rs)

	assert.Empty(t, updated)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.CompliancePercentage)
}

func TestEvaluate_IsDeterministicForIdenticalInput(t *testing.T) {
	rs := policy.RuleSet{Required: []policy.TagRule{{Key: "Owner"}, {Key: "Environment"}}}
	records := []discovery.Resource{
		{ResourceID: "i-1", Service: "ec2", ResourceType: "Instance", Tags: map[string]string{"Owner": "team-a"}},
		{ResourceID: "i-2", Service: "ec2", ResourceType: "Instance", Tags: map[string]string{}},
	}

	firstRecords, firstSummary := Evaluate(records, rs)
	secondRecords, secondSummary := Evaluate(records, rs)

	assert.Equal(t, firstSummary, secondSummary)
	assert.Equal(t, firstRecords, secondRecords)
}
