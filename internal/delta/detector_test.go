package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dillib/cloudbom/internal/discovery"
)

func resource(id, arn string, tags map[string]string) discovery.Resource {
	return discovery.Resource{
		ResourceID: id, ARN: arn, Service: "ec2", ResourceType: "Instance",
		Region: "us-east-1", AccountID: "111", Tags: tags,
	}
}

func TestDetect_AddedAndRemoved(t *testing.T) {
	before := []discovery.Resource{
		resource("i-1", "arn:aws:ec2:us-east-1:111:instance/i-1", map[string]string{"Owner": "team-a"}),
	}
	after := []discovery.Resource{
		resource("i-2", "arn:aws:ec2:us-east-1:111:instance/i-2", map[string]string{"Owner": "team-b"}),
	}

	d := Detect("snap-1", "snap-2", before, after, nil)

	assert.Equal(t, []string{"arn:aws:ec2:us-east-1:111:instance/i-2"}, d.Added)
	assert.Equal(t, []string{"arn:aws:ec2:us-east-1:111:instance/i-1"}, d.Removed)
	assert.Empty(t, d.Modified)
	assert.Equal(t, 0, d.UnchangedCount)
}

func TestDetect_UnchangedWhenIdenticalRecordPresentInBoth(t *testing.T) {
	r := resource("i-1", "arn:aws:ec2:us-east-1:111:instance/i-1", map[string]string{"Owner": "team-a"})

	d := Detect("snap-1", "snap-2", []discovery.Resource{r}, []discovery.Resource{r}, nil)

	assert.Empty(t, d.Added)
	assert.Empty(t, d.Removed)
	assert.Empty(t, d.Modified)
	assert.Equal(t, 1, d.UnchangedCount)
}

func TestDetect_ModifiedTagsProducesFieldChange(t *testing.T) {
	arn := "arn:aws:ec2:us-east-1:111:instance/i-1"
	before := []discovery.Resource{resource("i-1", arn, map[string]string{"Owner": "team-a"})}
	after := []discovery.Resource{resource("i-1", arn, map[string]string{"Owner": "team-b"})}

	d := Detect("snap-1", "snap-2", before, after, nil)

	assert.Len(t, d.Modified, 1)
	assert.Equal(t, arn, d.Modified[0].Key)
	assert.Len(t, d.Modified[0].Changes, 1)
	assert.Equal(t, "tags", d.Modified[0].Changes[0].Field)
}

func TestDetect_IgnoresAttributesOutsideWhitelist(t *testing.T) {
	arn := "arn:aws:ec2:us-east-1:111:instance/i-1"
	before := []discovery.Resource{resource("i-1", arn, map[string]string{"Owner": "team-a"})}
	after := append([]discovery.Resource(nil), before...)
	after[0].Name = "renamed"

	d := Detect("snap-1", "snap-2", before, after, nil)

	assert.Empty(t, d.Modified)
	assert.Equal(t, 1, d.UnchangedCount)
}

func TestDetect_SecurityGroupsCompareAsOrderIndependentSet(t *testing.T) {
	arn := "arn:aws:ec2:us-east-1:111:instance/i-1"
	before := resource("i-1", arn, nil)
	before.SecurityGroupIDs = []string{"sg-1", "sg-2"}
	after := resource("i-1", arn, nil)
	after.SecurityGroupIDs = []string{"sg-2", "sg-1"}

	d := Detect("snap-1", "snap-2", []discovery.Resource{before}, []discovery.Resource{after}, nil)

	assert.Empty(t, d.Modified)
	assert.Equal(t, 1, d.UnchangedCount)
}

func TestDetect_PrefersARNAsIdentityOverRotatedResourceID(t *testing.T) {
	arn := "arn:aws:ec2:us-east-1:111:instance/i-1"
	before := []discovery.Resource{resource("stale-id", arn, map[string]string{"Owner": "team-a"})}
	after := []discovery.Resource{resource("fresh-id", arn, map[string]string{"Owner": "team-a"})}

	d := Detect("snap-1", "snap-2", before, after, nil)

	assert.Empty(t, d.Added)
	assert.Empty(t, d.Removed)
	assert.Equal(t, 1, d.UnchangedCount)
}

func TestDetect_IsOrderIndependent(t *testing.T) {
	r1 := resource("i-1", "arn:1", map[string]string{"Owner": "a"})
	r2 := resource("i-2", "arn:2", map[string]string{"Owner": "b"})

	d1 := Detect("s1", "s2", []discovery.Resource{r1, r2}, []discovery.Resource{r2, r1}, nil)
	d2 := Detect("s1", "s2", []discovery.Resource{r2, r1}, []discovery.Resource{r1, r2}, nil)

	assert.Equal(t, d1.UnchangedCount, d2.UnchangedCount)
	assert.Equal(t, 2, d1.UnchangedCount)
}

func TestTagChanges_SplitsAddedRemovedModified(t *testing.T) {
	change := FieldChange{
		Field: "tags",
		Old:   map[string]string{"Owner": "team-a", "Stale": "x"},
		New:   map[string]string{"Owner": "team-b", "Fresh": "y"},
	}

	added, removed, modified := TagChanges(change)

	assert.Equal(t, map[string]string{"Fresh": "y"}, added)
	assert.Equal(t, map[string]string{"Stale": "x"}, removed)
	assert.Equal(t, map[string]string{"Owner": "team-b"}, modified)
}
