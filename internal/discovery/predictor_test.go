package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictDependentsLambdaToLogs(t *testing.T) {
	resources := []Resource{
		{Service: "lambda", ResourceID: "my-func", Region: "us-east-1", AccountID: "111122223333", Tags: map[string]string{}},
	}
	predicted := PredictDependents(resources)

	var found bool
	for _, p := range predicted {
		if p.Service == "logs" && p.ResourceID == "/aws/lambda/my-func" {
			found = true
			assert.Equal(t, MethodPrediction, p.DiscoveryMethod)
			assert.Less(t, p.ConfidenceScore, 1.0)
		}
	}
	assert.True(t, found, "expected a predicted log group for the lambda function")
}

func TestPredictDependentsSkipsExistingTarget(t *testing.T) {
	resources := []Resource{
		{Service: "lambda", ResourceID: "my-func", Region: "us-east-1", AccountID: "111122223333", Tags: map[string]string{}},
		{Service: "logs", ResourceID: "/aws/lambda/my-func", Region: "us-east-1", AccountID: "111122223333", Tags: map[string]string{}},
	}
	predicted := PredictDependents(resources)
	for _, p := range predicted {
		assert.NotEqual(t, "/aws/lambda/my-func", p.ResourceID, "real record should suppress the prediction")
	}
}

func TestPredictDependentsNoSourceServiceYieldsNothing(t *testing.T) {
	resources := []Resource{
		{Service: "s3", ResourceID: "my-bucket", Region: "us-east-1", AccountID: "111122223333", Tags: map[string]string{}},
	}
	assert.Empty(t, PredictDependents(resources))
}

func TestPredictDependentsECSClusterVsService(t *testing.T) {
	resources := []Resource{
		{Service: "ecs", ResourceType: "Cluster", ResourceID: "prod-cluster", Region: "us-east-1", AccountID: "111122223333", Tags: map[string]string{}},
	}
	predicted := PredictDependents(resources)
	var gotClusterLog bool
	for _, p := range predicted {
		if p.ResourceID == "/ecs/prod-cluster" {
			gotClusterLog = true
		}
	}
	assert.True(t, gotClusterLog)
}
