package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dillib/cloudbom/internal/errkind"
)

func TestCompileSafe_ValidPattern(t *testing.T) {
	re, err := compileSafe(`^(dev|staging|prod)$`)

	require.NoError(t, err)
	assert.True(t, re.MatchString("prod"))
	assert.False(t, re.MatchString("sandbox"))
}

func TestCompileSafe_RejectsInvalidSyntax(t *testing.T) {
	_, err := compileSafe(`(unterminated`)

	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.InvalidPolicy))
}

func TestCompileSafe_RejectsOverLengthPattern(t *testing.T) {
	pattern := strings.Repeat("a", maxPatternLength+1)

	_, err := compileSafe(pattern)

	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.InvalidPolicy))
}

func TestCompileSafe_AcceptsPatternAtExactLengthBound(t *testing.T) {
	pattern := strings.Repeat("a", maxPatternLength)

	_, err := compileSafe(pattern)

	assert.NoError(t, err)
}
