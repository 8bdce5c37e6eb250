package discovery

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dillib/cloudbom/internal/errkind"
	"github.com/dillib/cloudbom/internal/guard"
)

// CallParams names one provider operation attempt: the service, region, and
// operation to try.
type CallParams struct {
	Service   string
	Region    string
	Operation string
}

// RawItem is one element of a provider listing response, still in its
// provider-native JSON shape, paired with the operation that produced it so
// the Field Mapper can pick the right normalization rule.
type RawItem struct {
	Operation string
	Payload   []byte
}

// CloudBackend is the pluggable per-provider discovery surface (spec §1,
// "pluggable ... crawler"). AWS is the primary, full implementation;
// Azure/GCP/OCI provide a narrower, VM-focused slice to prove the interface
// generalizes beyond one provider.
type CloudBackend interface {
	// Name identifies the backend for logging and provenance.
	Name() string
	// Services lists the service identifiers this backend can discover.
	Services() []string
	// GlobalRegion is the canonical region used for global services.
	GlobalRegion() string
	// Discover issues the listing call(s) named by call and returns the raw
	// items found, or an error classified per the errkind taxonomy. Discover
	// must never issue a call guard.Allowed rejects.
	Discover(ctx context.Context, call CallParams) ([]RawItem, error)
}

// RegionDetector is implemented by a CloudBackend that needs a second,
// per-resource lookup to resolve a listing's region fallback into a
// resource's true home region (spec §4.2 "requires_region_detection", e.g.
// S3's bucket->location lookup). Backends with no such resource (Azure/GCP/
// OCI) need not implement it; the Engine falls back to the payload-only
// DetectRegion when a backend doesn't.
type RegionDetector interface {
	DetectRegion(ctx context.Context, service string, res Resource) (string, error)
}

// Unit is the result of running the per-(service,region) discovery
// algorithm (spec §4.3) for a single account.
type Unit struct {
	Service   string
	Region    string
	Resources []Resource
	Err       error
}

// Engine runs discovery units against a CloudBackend, consulting a shared
// FieldMapper and ProcessState so the successful-operation heuristic and
// client cache are visible across every unit in a run.
type Engine struct {
	Backend  CloudBackend
	Mapper   *FieldMapper
	State    *ProcessState
	Breakers *BreakerRegistry
	Retry    RetryPolicy
	Logger   *zap.Logger
}

// NewEngine wires an Engine with the standard AWS field mapper, shared
// process state, breaker registry, and default retry policy.
func NewEngine(backend CloudBackend, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Backend:  backend,
		Mapper:   NewFieldMapper(),
		State:    NewProcessState(),
		Breakers: NewBreakerRegistry(),
		Retry:    DefaultRetryPolicy,
		Logger:   logger,
	}
}

// RunAccount fans discovery units for every (service, region) pair out
// across a worker pool (spec §4.3 "Concurrency"), bounded by maxWorkers.
// Per-unit failures never abort the run: each Unit carries its own error.
func (e *Engine) RunAccount(ctx context.Context, regions []string, maxWorkers int) []Unit {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	type job struct {
		service, region string
	}
	var jobs []job
	for _, svc := range e.Backend.Services() {
		pattern, hasPattern := e.Mapper.Pattern(svc)
		global := hasPattern && pattern.GlobalService
		if global {
			jobs = append(jobs, job{svc, e.Backend.GlobalRegion()})
			continue
		}
		for _, r := range regions {
			jobs = append(jobs, job{svc, r})
		}
	}

	results := make([]Unit, len(jobs))
	sem := semaphore.NewWeighted(int64(maxWorkers))
	g, gctx := errgroup.WithContext(ctx)

	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					results[i] = Unit{Service: j.service, Region: j.region,
						Err: errkind.New(errkind.UnexpectedError, "panic in discovery unit "+j.service+"/"+j.region)}
				}
			}()
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = Unit{Service: j.service, Region: j.region, Err: err}
				return nil
			}
			defer sem.Release(1)

			results[i] = e.discoverUnit(gctx, j.service, j.region)
			return nil
		})
	}
	// errgroup.Wait's error is always nil here: unit failures are captured per
	// result, never propagated as a group-wide abort.
	_ = g.Wait()

	return results
}

// discoverUnit implements the five-step per-unit algorithm (spec §4.3).
func (e *Engine) discoverUnit(ctx context.Context, service, region string) Unit {
	unit := Unit{Service: service, Region: region}

	operations := e.operationsFor(service)
	if len(operations) == 0 {
		unit.Err = errkind.New(errkind.UnexpectedError, "no candidate operations for service "+service)
		return unit
	}

	var items []RawItem
	var usedOp string
	for _, op := range e.prioritized(service, operations) {
		if !guard.Allowed(op) {
			continue
		}

		call := CallParams{Service: service, Region: region, Operation: op}
		result, err := e.tryOperation(ctx, call)
		if err != nil {
			e.Logger.Debug("discovery operation failed",
				zap.String("service", service), zap.String("region", region),
				zap.String("operation", op), zap.Error(err))
			continue
		}
		if len(result) > 0 {
			items = result
			usedOp = op
			e.State.RecordSuccess(service, op)
			break
		}
	}

	if usedOp == "" {
		e.State.MarkServiceFailed(service)
		return unit
	}

	seen := map[string]bool{}
	for _, item := range items {
		res, ok := e.normalize(ctx, item, service, region)
		if !ok {
			continue
		}
		if e.Mapper.IsManagedResource(res) {
			continue
		}
		key := res.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		unit.Resources = append(unit.Resources, res)
	}

	return unit
}

// tryOperation issues one call through the circuit breaker and retry
// policy, translating a breaker rejection or exhausted retry into an empty
// result rather than letting it escape to the Orchestrator (spec §4.3
// "Failure modes").
func (e *Engine) tryOperation(ctx context.Context, call CallParams) ([]RawItem, error) {
	var result []RawItem
	err := e.Retry.Do(ctx, func() error {
		v, err := e.Breakers.Execute(call.Service, call.Operation, func() (any, error) {
			return e.Backend.Discover(ctx, call)
		})
		if err != nil {
			return err
		}
		result, _ = v.([]RawItem)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// operationsFor returns the mapper's declared operations for service, or
// nil if no pattern is registered (triggering the generic fallback path in
// genericinvoke.go).
func (e *Engine) operationsFor(service string) []string {
	if pattern, ok := e.Mapper.Pattern(service); ok {
		return pattern.Operations
	}
	return GenericOperations(service, e.Backend)
}

// prioritized puts the process-wide known-good operation for service first
// when one has been recorded, per the early-termination heuristic.
func (e *Engine) prioritized(service string, ops []string) []string {
	known, ok := e.State.SuccessfulOperation(service)
	if !ok {
		return ops
	}
	out := make([]string, 0, len(ops))
	out = append(out, known)
	for _, op := range ops {
		if op != known {
			out = append(out, op)
		}
	}
	return out
}

// normalize builds a Resource from a raw item, attaches region-detection
// enrichment when the service pattern requires it, and scores confidence.
func (e *Engine) normalize(ctx context.Context, item RawItem, service, region string) (Resource, bool) {
	res, ok := BuildResource(item, service, region, e.Mapper)
	if !ok {
		return Resource{}, false
	}

	if pattern, ok := e.Mapper.Pattern(service); ok && pattern.RequiresRegionDetect {
		res.Region = e.State.ClientFor("region:"+res.Key(), func() any {
			if detector, ok := e.Backend.(RegionDetector); ok {
				if detected, err := detector.DetectRegion(ctx, service, res); err == nil {
					return detected
				}
			}
			return DetectRegion(item, res.Region)
		}).(string)
	}

	res.ConfidenceScore = e.Mapper.ScoreFields(PresenceOf(res))
	if res.ConfidenceScore < 1.0 && res.DiscoveryMethod == "" {
		res.DiscoveryMethod = MethodListing
	}
	return res, true
}

// AccountDeadline bounds how long a single account's discovery may run
// before the Orchestrator marks it Failed (spec §4.4).
const AccountDeadline = 30 * time.Minute
