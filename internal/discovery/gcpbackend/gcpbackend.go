// Package gcpbackend is a supplemental CloudBackend: Compute Engine
// instances only, adapted read-only from the teacher's ListGCPInstances
// aggregated-list path.
package gcpbackend

import (
	"context"
	"encoding/json"

	compute "google.golang.org/api/compute/v1"

	"github.com/dillib/cloudbom/internal/discovery"
	"github.com/dillib/cloudbom/internal/errkind"
)

// Backend lists GCP Compute Engine instances across all zones of a project
// via the aggregated-list endpoint, same as the teacher's billing-adjacent
// instance listing.
type Backend struct {
	service   *compute.Service
	projectID string
}

// New builds a Backend from an already-constructed compute.Service.
func New(service *compute.Service, projectID string) *Backend {
	return &Backend{service: service, projectID: projectID}
}

func (b *Backend) Name() string         { return "gcp" }
func (b *Backend) Services() []string   { return []string{"compute"} }
func (b *Backend) GlobalRegion() string { return "global" }

// Discover lists every instance in the project. GCP's zone is folded into
// each item's payload rather than driving the (service,region) unit, since
// the aggregated-list call already spans every zone in one request.
func (b *Backend) Discover(ctx context.Context, call discovery.CallParams) ([]discovery.RawItem, error) {
	if call.Service != "compute" {
		return nil, errkind.New(errkind.UnexpectedError, "gcp backend has no service "+call.Service)
	}

	var items []discovery.RawItem
	req := b.service.Instances.AggregatedList(b.projectID)
	err := req.Pages(ctx, func(page *compute.InstanceAggregatedList) error {
		for zone, scoped := range page.Items {
			for _, instance := range scoped.Instances {
				entry := map[string]any{
					"id":          instance.Id,
					"name":        instance.Name,
					"zone":        zone,
					"status":      instance.Status,
					"machineType": instance.MachineType,
					"labels":      instance.Labels,
					"createdAt":   instance.CreationTimestamp,
				}
				raw, merr := json.Marshal(entry)
				if merr != nil {
					continue
				}
				items = append(items, discovery.RawItem{Operation: "AggregatedListInstances", Payload: raw})
			}
		}
		return nil
	})
	if err != nil {
		return nil, errkind.Wrap(errkind.Transient, err, "gcp instance listing failed")
	}
	return items, nil
}
