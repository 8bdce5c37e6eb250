package state

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillib/cloudbom/internal/compliance"
	"github.com/dillib/cloudbom/internal/discovery"
)

func sampleRecords() []discovery.Resource {
	return []discovery.Resource{
		{ResourceID: "i-1", ARN: "arn:aws:ec2:us-east-1:111:instance/i-1",
			Service: "ec2", ResourceType: "Instance", Region: "us-east-1", AccountID: "111",
			Tags: map[string]string{"Owner": "team-a"}},
	}
}

func newTestStore(t *testing.T, retentionDays, maxSnapshots int) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), retentionDays, maxSnapshots, nil)
	require.NoError(t, err)
	return store
}

func TestStore_SaveAndLoadRoundTrips(t *testing.T) {
	store := newTestStore(t, 0, 0)
	records := sampleRecords()
	summary := compliance.Summary{Total: 1, Compliant: 1, CompliancePercentage: 100}

	id, err := store.Save(records, summary, []string{"111"}, []string{"us-east-1"}, map[string]string{"env": "demo"}, time.Unix(1000, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	loaded, err := store.Load(id)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.SnapshotID)
	assert.Len(t, loaded.Records, 1)
	assert.Equal(t, "i-1", loaded.Records[0].ResourceID)
}

func TestStore_SaveIsIdempotentOnEqualChecksum(t *testing.T) {
	store := newTestStore(t, 0, 0)
	records := sampleRecords()
	summary := compliance.Summary{Total: 1, Compliant: 1}

	id1, err := store.Save(records, summary, []string{"111"}, []string{"us-east-1"}, nil, time.Unix(1000, 0))
	require.NoError(t, err)
	id2, err := store.Save(records, summary, []string{"111"}, []string{"us-east-1"}, nil, time.Unix(2000, 0))
	require.NoError(t, err)

	assert.Equal(t, id1, id2)

	metas, err := store.List()
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}

func TestStore_ListOrderedByCreationTime(t *testing.T) {
	store := newTestStore(t, 0, 0)
	summary := compliance.Summary{}

	r1 := sampleRecords()
	r2 := sampleRecords()
	r2[0].Tags = map[string]string{"Owner": "team-b"}

	_, err := store.Save(r1, summary, nil, nil, nil, time.Unix(3000, 0))
	require.NoError(t, err)
	_, err = store.Save(r2, summary, nil, nil, nil, time.Unix(1000, 0))
	require.NoError(t, err)

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.True(t, metas[0].CreatedAt.Before(metas[1].CreatedAt))
}

func TestStore_CompareDelegatesToDeltaDetector(t *testing.T) {
	store := newTestStore(t, 0, 0)
	summary := compliance.Summary{}

	before := sampleRecords()
	id1, err := store.Save(before, summary, nil, nil, nil, time.Unix(1000, 0))
	require.NoError(t, err)

	after := sampleRecords()
	after[0].Tags = map[string]string{"Owner": "team-b"}
	id2, err := store.Save(after, summary, nil, nil, nil, time.Unix(2000, 0))
	require.NoError(t, err)

	d, err := store.Compare(id1, id2, nil)
	require.NoError(t, err)
	assert.Len(t, d.Modified, 1)
}

func TestStore_ValidateIntegrityDetectsChecksumMismatch(t *testing.T) {
	store := newTestStore(t, 0, 0)
	summary := compliance.Summary{}

	id, err := store.Save(sampleRecords(), summary, nil, nil, nil, time.Unix(1000, 0))
	require.NoError(t, err)

	snap, err := store.Load(id)
	require.NoError(t, err)
	snap.Checksum = "deadbeef"
	corrupted, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.path(id), corrupted, 0o644))

	report, err := store.ValidateIntegrity()
	require.NoError(t, err)
	assert.Contains(t, report.ChecksumMismatches, id)
}

func TestStore_RetentionNeverPrunesMostRecent(t *testing.T) {
	store := newTestStore(t, 1, 1)
	summary := compliance.Summary{}

	old := sampleRecords()
	old[0].Tags = map[string]string{"Owner": "old"}
	_, err := store.Save(old, summary, nil, nil, nil, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)

	recent := sampleRecords()
	recent[0].Tags = map[string]string{"Owner": "recent"}
	recentID, err := store.Save(recent, summary, nil, nil, nil, time.Now())
	require.NoError(t, err)

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, recentID, metas[0].SnapshotID)
}

func TestStore_RetentionEnforcesMaxSnapshotCount(t *testing.T) {
	store := newTestStore(t, 0, 2)
	summary := compliance.Summary{}

	var ids []string
	for i := 0; i < 4; i++ {
		r := sampleRecords()
		r[0].Tags = map[string]string{"Owner": string(rune('a' + i))}
		id, err := store.Save(r, summary, nil, nil, nil, time.Unix(int64(1000*(i+1)), 0))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	metas, err := store.List()
	require.NoError(t, err)
	assert.Len(t, metas, 2)
	assert.Equal(t, ids[3], metas[len(metas)-1].SnapshotID)
}
