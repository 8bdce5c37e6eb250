package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillib/cloudbom/internal/errkind"
)

func TestLoad_YAMLDocument(t *testing.T) {
	doc := []byte(`
required_tags:
  - key: owner
  - key: environment
    values: [dev, staging, prod]
optional_tags:
  - ticket
service_specific_rules:
  s3:
    required_tags:
      - key: data-classification
exemptions:
  - service: ec2
    type: instance
    pattern: "^i-scratch"
    exempt_tags: [owner]
`)

	rs, err := Load(doc)

	require.NoError(t, err)
	assert.Len(t, rs.Required, 2)
	assert.Len(t, rs.Optional, 1)
	assert.Equal(t, "ticket", rs.Optional[0].Key)
	assert.Contains(t, rs.Overrides, "s3")
	assert.Len(t, rs.Exemptions, 1)
	assert.True(t, rs.Exemptions[0].Matches("ec2", "instance", "i-scratch-1"))
	assert.Equal(t, []string{"owner"}, rs.Exemptions[0].TagKeys)
}

func TestLoad_RequiredTagsAcceptsBareStringKeys(t *testing.T) {
	doc := []byte(`
required_tags:
  - Environment
  - Owner
`)

	rs, err := Load(doc)

	require.NoError(t, err)
	require.Len(t, rs.Required, 2)
	assert.Equal(t, "Environment", rs.Required[0].Key)
	assert.Equal(t, "Owner", rs.Required[1].Key)
}

func TestLoad_TagPatternsAppliesToRequiredKeyWithNoInlinePattern(t *testing.T) {
	doc := []byte(`
required_tags:
  - Environment
  - Owner
tag_patterns:
  Environment: "^(production|staging|development|test)$"
`)

	rs, err := Load(doc)

	require.NoError(t, err)
	env := rs.Required[0]
	require.NotNil(t, env.Pattern)
	assert.True(t, env.Matches("production"))
	assert.False(t, env.Matches("invalid-env"))

	owner := rs.Required[1]
	assert.Nil(t, owner.Pattern)
}

func TestLoad_InlinePatternWinsOverTagPatterns(t *testing.T) {
	doc := []byte(`
required_tags:
  - key: Environment
    pattern: "^(prod)$"
tag_patterns:
  Environment: "^(production|staging)$"
`)

	rs, err := Load(doc)

	require.NoError(t, err)
	env := rs.Required[0]
	assert.True(t, env.Matches("prod"))
	assert.False(t, env.Matches("production"))
}

func TestLoad_JSONDocumentIsAcceptedAsYAMLSubset(t *testing.T) {
	doc := []byte(`{"required_tags": [{"key": "owner"}]}`)

	rs, err := LoadJSON(doc)

	require.NoError(t, err)
	assert.Len(t, rs.Required, 1)
	assert.Equal(t, "owner", rs.Required[0].Key)
}

func TestLoad_RejectsEmptyRequiredSet(t *testing.T) {
	_, err := Load([]byte(`required_tags: []`))

	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.InvalidPolicy))
}

func TestLoad_RejectsRuleMissingKey(t *testing.T) {
	_, err := Load([]byte(`
required_tags:
  - key: owner
  - pattern: ".*"
`))

	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.InvalidPolicy))
}

func TestLoad_RejectsInvalidRegexPattern(t *testing.T) {
	_, err := Load([]byte(`
required_tags:
  - key: environment
    pattern: "(unterminated"
`))

	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.InvalidPolicy))
}

func TestLoad_RejectsOversizedPattern(t *testing.T) {
	long := make([]byte, maxPatternLength+1)
	for i := range long {
		long[i] = 'a'
	}
	doc := []byte("required_tags:\n  - key: environment\n    pattern: \"" + string(long) + "\"\n")

	_, err := Load(doc)

	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.InvalidPolicy))
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	_, err := LoadJSON([]byte(`{not json`))

	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.InvalidPolicy))
}

func TestLoad_PerServiceOverrideCompilesPattern(t *testing.T) {
	doc := []byte(`
required_tags:
  - key: owner
service_specific_rules:
  rds:
    required_tags:
      - key: engine
        pattern: "^(mysql|postgres)$"
`)

	rs, err := Load(doc)

	require.NoError(t, err)
	override := rs.Overrides["rds"]
	require.Len(t, override.Required, 1)
	assert.True(t, override.Required[0].Matches("postgres"))
	assert.False(t, override.Required[0].Matches("oracle"))
}

func TestLoad_TagPatternsAppliesWithinServiceOverride(t *testing.T) {
	doc := []byte(`
required_tags:
  - key: owner
service_specific_rules:
  lambda:
    required_tags:
      - Runtime
tag_patterns:
  Runtime: "^(go1.x|python3.12)$"
`)

	rs, err := Load(doc)

	require.NoError(t, err)
	override := rs.Overrides["lambda"]
	require.Len(t, override.Required, 1)
	assert.True(t, override.Required[0].Matches("python3.12"))
	assert.False(t, override.Required[0].Matches("java11"))
}
