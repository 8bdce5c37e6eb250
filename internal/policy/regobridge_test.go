package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRego_ListsRequiredKeys(t *testing.T) {
	rs := RuleSet{Required: []TagRule{{Key: "owner"}, {Key: "environment"}}}

	module := GenerateRego(rs)

	assert.Contains(t, module, `"owner"`)
	assert.Contains(t, module, `"environment"`)
	assert.Contains(t, module, "package cloudbom.tagpolicy")
}

func TestRegoCrossCheck_AllowsWhenAllRequiredTagsPresent(t *testing.T) {
	rs := RuleSet{Required: []TagRule{{Key: "owner"}, {Key: "environment"}}}
	subject := Subject{Tags: map[string]string{"owner": "team-a", "environment": "prod"}}

	allowed, err := RegoCrossCheck(context.Background(), rs, subject)

	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRegoCrossCheck_DeniesWhenRequiredTagMissing(t *testing.T) {
	rs := RuleSet{Required: []TagRule{{Key: "owner"}, {Key: "environment"}}}
	subject := Subject{Tags: map[string]string{"owner": "team-a"}}

	allowed, err := RegoCrossCheck(context.Background(), rs, subject)

	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAgrees_MatchesClassifyVerdictAgainstCrossCheck(t *testing.T) {
	compliant := Classification{Status: Compliant}
	nonCompliant := Classification{Status: NonCompliant, Violations: []string{"missing:owner"}}

	assert.True(t, Agrees(compliant, true))
	assert.True(t, Agrees(nonCompliant, false))
	assert.False(t, Agrees(compliant, false))
	assert.False(t, Agrees(nonCompliant, true))
}

func TestRegoCrossCheck_AgreesWithClassifyOnGlobalRequiredSet(t *testing.T) {
	rs := RuleSet{Required: []TagRule{{Key: "owner"}}}
	subject := Subject{Service: "ec2", ResourceType: "instance", ResourceID: "i-1",
		Tags: map[string]string{"owner": "team-a"}}

	classification := Classify(subject, rs)
	allowed, err := RegoCrossCheck(context.Background(), rs, subject)

	require.NoError(t, err)
	assert.True(t, Agrees(classification, allowed))
}
