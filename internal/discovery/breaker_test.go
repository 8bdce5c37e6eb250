package discovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakerRegistryReturnsSameBreakerForSameKey(t *testing.T) {
	r := NewBreakerRegistry()
	a := r.For("ec2", "DescribeInstances")
	b := r.For("ec2", "DescribeInstances")
	assert.Same(t, a, b)
}

func TestBreakerRegistryIsolatesDifferentOperations(t *testing.T) {
	r := NewBreakerRegistry()
	a := r.For("ec2", "DescribeInstances")
	b := r.For("ec2", "DescribeVpcs")
	assert.NotSame(t, a, b)
}

func TestBreakerRegistryTripsAfterConsecutiveFailures(t *testing.T) {
	r := NewBreakerRegistry()
	failing := func() (any, error) { return nil, errors.New("boom") }

	for i := 0; i < 5; i++ {
		_, _ = r.Execute("lambda", "ListFunctions", failing)
	}

	_, err := r.Execute("lambda", "ListFunctions", func() (any, error) { return "ok", nil })
	assert.Error(t, err, "breaker should be open and reject the next call")
}
