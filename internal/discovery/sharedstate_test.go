package discovery

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessStateSuccessfulOperationRoundtrip(t *testing.T) {
	s := NewProcessState()
	_, ok := s.SuccessfulOperation("ec2")
	assert.False(t, ok)

	s.RecordSuccess("ec2", "DescribeInstances")
	op, ok := s.SuccessfulOperation("ec2")
	assert.True(t, ok)
	assert.Equal(t, "DescribeInstances", op)
}

func TestProcessStateMarkServiceFailed(t *testing.T) {
	s := NewProcessState()
	assert.False(t, s.ServiceFailed("lambda"))
	s.MarkServiceFailed("lambda")
	assert.True(t, s.ServiceFailed("lambda"))
}

func TestProcessStateClientForCachesAndDeduplicatesBuilds(t *testing.T) {
	s := NewProcessState()
	builds := 0
	build := func() any {
		builds++
		return "client"
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ClientFor("ec2:us-east-1", build)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, builds)
}
