package discovery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTagsKVList(t *testing.T) {
	raw := json.RawMessage(`[{"Key":"Environment","Value":"prod"},{"Key":"Team","Value":"platform"}]`)
	assert.Equal(t, LayoutKVList, DetectTagLayout(raw))
	assert.Equal(t, map[string]string{"Environment": "prod", "Team": "platform"}, NormalizeTags(raw))
}

func TestNormalizeTagsNestedTagsList(t *testing.T) {
	raw := json.RawMessage(`{"Tags":[{"Key":"Environment","Value":"staging"}]}`)
	assert.Equal(t, LayoutNestedTagsList, DetectTagLayout(raw))
	assert.Equal(t, map[string]string{"Environment": "staging"}, NormalizeTags(raw))
}

func TestNormalizeTagsFlatMap(t *testing.T) {
	raw := json.RawMessage(`{"environment":"dev","team":"core"}`)
	assert.Equal(t, LayoutFlatMap, DetectTagLayout(raw))
	assert.Equal(t, map[string]string{"environment": "dev", "team": "core"}, NormalizeTags(raw))
}

func TestNormalizeTagsEmptyNeverNil(t *testing.T) {
	got := NormalizeTags(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
