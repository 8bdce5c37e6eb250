package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillib/cloudbom/internal/errkind"
)

func TestBuildSession_RejectsAccountWithNoCredentialSource(t *testing.T) {
	_, err := BuildSession(AccountConfig{AccountID: "111"})

	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.CredentialError))
}

func TestBuildSession_StaticCredentialsPathSucceeds(t *testing.T) {
	sess, err := BuildSession(AccountConfig{
		AccountID: "111", AccessKeyID: "AKIAEXAMPLE", SecretAccessKey: "secret",
	})

	require.NoError(t, err)
	assert.NotNil(t, sess)
}

func TestBuildSession_CrossAccountRoleBuildsAssumeRoleSession(t *testing.T) {
	sess, err := BuildSession(AccountConfig{
		AccountID: "111222333444", CrossAccountRole: "CloudBOMReadOnly",
	})

	require.NoError(t, err)
	assert.NotNil(t, sess)
}
