package discovery

import (
	"encoding/json"
	"fmt"
	"strings"
)

// predictionRule is one entry of the dependent-resource rule table: given a
// discovered source resource, it derives the ID of a resource the provider
// almost certainly created alongside it but that a listing call might not
// surface directly (e.g. the CloudWatch log group a Lambda function writes
// to). Transcribed from _apply_ai_predictions's ai_patterns table.
type predictionRule struct {
	name          string
	sourceService string
	targetService string
	resourceType  string
	confidence    float64
	predictedID   func(Resource) string
}

var predictionRules = []predictionRule{
	{
		name: "lambda_to_logs", sourceService: "lambda", targetService: "logs",
		resourceType: "LogGroup", confidence: 0.7,
		predictedID: func(r Resource) string { return fmt.Sprintf("/aws/lambda/%s", r.ResourceID) },
	},
	{
		name: "ecs_to_logs", sourceService: "ecs", targetService: "logs",
		resourceType: "LogGroup", confidence: 0.6,
		predictedID: func(r Resource) string {
			if r.ResourceType == "Cluster" {
				return fmt.Sprintf("/ecs/%s", r.ResourceID)
			}
			return fmt.Sprintf("/aws/ecs/containerinsights/%s", r.ResourceID)
		},
	},
	{
		name: "eks_to_logs", sourceService: "eks", targetService: "logs",
		resourceType: "LogGroup", confidence: 0.6,
		predictedID: func(r Resource) string { return fmt.Sprintf("/aws/eks/%s/cluster", r.ResourceID) },
	},
	{
		name: "apigateway_to_logs", sourceService: "apigateway", targetService: "logs",
		resourceType: "LogGroup", confidence: 0.5,
		predictedID: func(r Resource) string {
			return fmt.Sprintf("API-Gateway-Execution-Logs_%s/prod", r.ResourceID)
		},
	},
	{
		name: "rds_to_logs", sourceService: "rds", targetService: "logs",
		resourceType: "LogGroup", confidence: 0.4,
		predictedID: func(r Resource) string { return fmt.Sprintf("/aws/rds/instance/%s/error", r.ResourceID) },
	},
	{
		name: "codebuild_to_logs", sourceService: "codebuild", targetService: "logs",
		resourceType: "LogGroup", confidence: 0.6,
		predictedID: func(r Resource) string { return fmt.Sprintf("/aws/codebuild/%s", r.ResourceID) },
	},
	{
		name: "lambda_to_cloudwatch", sourceService: "lambda", targetService: "cloudwatch",
		resourceType: "Alarm", confidence: 0.4,
		predictedID: func(r Resource) string { return fmt.Sprintf("%s-errors", r.ResourceID) },
	},
	{
		name: "rds_to_cloudwatch", sourceService: "rds", targetService: "cloudwatch",
		resourceType: "Alarm", confidence: 0.4,
		predictedID: func(r Resource) string { return fmt.Sprintf("%s-cpu-utilization", r.ResourceID) },
	},
	{
		name: "lambda_to_iam", sourceService: "lambda", targetService: "iam",
		resourceType: "Role", confidence: 0.5,
		predictedID: func(r Resource) string { return fmt.Sprintf("%s-role", r.ResourceID) },
	},
	{
		name: "ecs_to_iam", sourceService: "ecs", targetService: "iam",
		resourceType: "Role", confidence: 0.4,
		predictedID: func(Resource) string { return "ecsTaskExecutionRole" },
	},
}

// PredictDependents scans a discovered resource set for the rule table's
// source services and, for every match whose predicted target doesn't
// already exist in the set, synthesizes a provisional Resource with
// DiscoveryMethod MethodPrediction and the rule's fixed confidence (spec
// §4.6). Predicted resources are additive; they never replace a listed one.
func PredictDependents(resources []Resource) []Resource {
	bySource := map[string][]Resource{}
	byTarget := map[string]map[string]bool{}
	for _, r := range resources {
		svc := strings.ToLower(r.Service)
		bySource[svc] = append(bySource[svc], r)
		if byTarget[svc] == nil {
			byTarget[svc] = map[string]bool{}
		}
		byTarget[svc][r.ResourceID] = true
	}

	var predicted []Resource
	for _, rule := range predictionRules {
		sources, ok := bySource[rule.sourceService]
		if !ok {
			continue
		}
		existing := byTarget[rule.targetService]
		for _, src := range sources {
			predictedID := rule.predictedID(src)
			if existing[predictedID] {
				continue
			}
			raw, _ := json.Marshal(map[string]any{
				"predicted":       true,
				"source_resource": src.Key(),
			})
			predicted = append(predicted, Resource{
				ResourceID:      predictedID,
				Name:            predictedID,
				Service:         rule.targetService,
				ResourceType:    rule.resourceType,
				Region:          src.Region,
				AccountID:       src.AccountID,
				ARN:             fmt.Sprintf("arn:aws:%s:%s:%s:%s/%s", rule.targetService, src.Region, src.AccountID, strings.ToLower(rule.resourceType), predictedID),
				Tags:            map[string]string{},
				RawData:         raw,
				ConfidenceScore: rule.confidence,
				DiscoveryMethod: MethodPrediction,
			})
		}
	}
	return predicted
}
