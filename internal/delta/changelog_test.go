package delta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_IncludesAllSections(t *testing.T) {
	d := Delta{
		SnapshotIDBefore: "snap-1",
		SnapshotIDAfter:  "snap-2",
		Added:            []string{"arn:aws:ec2:us-east-1:111:instance/i-2"},
		Removed:          []string{"arn:aws:ec2:us-east-1:111:instance/i-1"},
		Modified: []Modified{
			{Key: "arn:aws:s3:::bucket-1", Changes: []FieldChange{
				{Field: "tags", Old: "x", New: "y"},
			}},
		},
		UnchangedCount: 4,
	}

	out, err := Render(d, time.Unix(0, 0), time.Unix(3600, 0))

	require.NoError(t, err)
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Removed")
	assert.Contains(t, out, "Modified")
	assert.Contains(t, out, "arn:aws:ec2:us-east-1:111:instance/i-2")
	assert.Contains(t, out, "arn:aws:ec2:us-east-1:111:instance/i-1")
	assert.Contains(t, out, "bucket-1")
	assert.Contains(t, out, "Unchanged: 4")
	assert.NotContains(t, out, "<")
}

func TestRender_EmptyDeltaStillRendersSkeleton(t *testing.T) {
	d := Delta{SnapshotIDBefore: "snap-1", SnapshotIDAfter: "snap-2", UnchangedCount: 0}

	out, err := Render(d, time.Time{}, time.Time{})

	require.NoError(t, err)
	assert.Contains(t, out, "Inventory Changelog")
	assert.Contains(t, out, "Unchanged: 0")
}

func TestRender_IsDeterministic(t *testing.T) {
	d := Delta{
		SnapshotIDBefore: "snap-1", SnapshotIDAfter: "snap-2",
		Added: []string{"b", "a"},
	}

	first, err1 := Render(d, time.Time{}, time.Time{})
	second, err2 := Render(d, time.Time{}, time.Time{})

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}
