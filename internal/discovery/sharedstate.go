package discovery

import "sync"

// ProcessState is the engine's one piece of process-wide mutable state (spec
// §4.3, "Shared resources"): the successful-operation heuristic, the
// failed-services set, and a per-(service,region) client cache. All three
// are guarded by the same mutex since writes are rare and reads happen on
// every unit.
type ProcessState struct {
	mu                   sync.RWMutex
	successfulOperations map[string]string
	failedServices       map[string]bool
	clients              map[string]any
}

// NewProcessState returns empty shared state for a fresh run. State is not
// reused across runs; each run starts with no learned heuristics.
func NewProcessState() *ProcessState {
	return &ProcessState{
		successfulOperations: map[string]string{},
		failedServices:       map[string]bool{},
		clients:              map[string]any{},
	}
}

// SuccessfulOperation returns the operation last known to return a
// non-empty result for service, if any unit has recorded one yet.
func (s *ProcessState) SuccessfulOperation(service string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.successfulOperations[service]
	return op, ok
}

// RecordSuccess updates the heuristic once a unit confirms an operation
// returned a non-empty payload, per spec §4.3's "updated only after a
// successful non-empty response".
func (s *ProcessState) RecordSuccess(service, operation string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successfulOperations[service] = operation
}

// MarkServiceFailed records that every operation attempted for a service
// failed. The Engine does not consult this set when it picks operations, so
// later units for the same service try the same operations again.
func (s *ProcessState) MarkServiceFailed(service string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failedServices[service] = true
}

// ServiceFailed reports whether MarkServiceFailed has been called for
// service in this run.
func (s *ProcessState) ServiceFailed(service string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failedServices[service]
}

// ClientFor returns a cached client for key, or creates one via build and
// caches it. Concurrent callers racing to build the same client will only
// have one winner; the rest reuse it.
func (s *ProcessState) ClientFor(key string, build func() any) any {
	s.mu.RLock()
	if c, ok := s.clients[key]; ok {
		s.mu.RUnlock()
		return c
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[key]; ok {
		return c
	}
	c := build()
	s.clients[key] = c
	return c
}
