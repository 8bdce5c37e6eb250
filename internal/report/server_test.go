package report

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillib/cloudbom/internal/compliance"
	"github.com/dillib/cloudbom/internal/discovery"
	"github.com/dillib/cloudbom/internal/state"
)

func newTestServer(t *testing.T) (*state.Store, string) {
	t.Helper()
	store, err := state.NewStore(t.TempDir(), 0, 0, nil)
	require.NoError(t, err)

	records := []discovery.Resource{
		{ResourceID: "i-1", ARN: "arn:aws:ec2:us-east-1:111:instance/i-1",
			Service: "ec2", ResourceType: "Instance", Region: "us-east-1", AccountID: "111",
			Tags: map[string]string{"Owner": "team-a"}},
	}
	id, err := store.Save(records, compliance.Summary{Total: 1, Compliant: 1}, []string{"111"}, []string{"us-east-1"}, nil, time.Unix(1000, 0))
	require.NoError(t, err)
	return store, id
}

func TestHealthEndpoint(t *testing.T) {
	store, _ := newTestServer(t)
	app := NewServer(store, "*")

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestListSnapshotsEndpoint(t *testing.T) {
	store, _ := newTestServer(t)
	app := NewServer(store, "*")

	req := httptest.NewRequest("GET", "/snapshots/", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestGetSnapshotEndpoint_NotFound(t *testing.T) {
	store, _ := newTestServer(t)
	app := NewServer(store, "*")

	req := httptest.NewRequest("GET", "/snapshots/does-not-exist", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetSnapshotEndpoint_Found(t *testing.T) {
	store, id := newTestServer(t)
	app := NewServer(store, "*")

	req := httptest.NewRequest("GET", "/snapshots/"+id, nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestIntegrityEndpoint(t *testing.T) {
	store, _ := newTestServer(t)
	app := NewServer(store, "*")

	req := httptest.NewRequest("GET", "/snapshots/integrity", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
