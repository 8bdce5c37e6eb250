// Package ocibackend is a supplemental CloudBackend: OCI Compute instances
// only, adapted read-only from the teacher's ListOCIInstances compartment
// scan.
package ocibackend

import (
	"context"
	"encoding/json"

	"github.com/oracle/oci-go-sdk/v65/core"

	"github.com/dillib/cloudbom/internal/discovery"
	"github.com/dillib/cloudbom/internal/errkind"
)

// Backend lists OCI Compute instances in a compartment.
type Backend struct {
	client        core.ComputeClient
	compartmentID string
}

// New builds a Backend from an already-constructed ComputeClient.
func New(client core.ComputeClient, compartmentID string) *Backend {
	return &Backend{client: client, compartmentID: compartmentID}
}

func (b *Backend) Name() string         { return "oci" }
func (b *Backend) Services() []string   { return []string{"compute"} }
func (b *Backend) GlobalRegion() string { return "global" }

// Discover lists every instance in the compartment, regardless of
// lifecycle state, unlike the teacher's running-only filter — discovery
// wants a complete inventory, not just stoppable candidates.
func (b *Backend) Discover(ctx context.Context, call discovery.CallParams) ([]discovery.RawItem, error) {
	if call.Service != "compute" {
		return nil, errkind.New(errkind.UnexpectedError, "oci backend has no service "+call.Service)
	}

	var items []discovery.RawItem
	var page *string
	for {
		resp, err := b.client.ListInstances(ctx, core.ListInstancesRequest{
			CompartmentId: &b.compartmentID,
			Page:          page,
		})
		if err != nil {
			return nil, errkind.Wrap(errkind.Transient, err, "oci instance listing failed")
		}
		for _, instance := range resp.Items {
			raw, merr := json.Marshal(instance)
			if merr != nil {
				continue
			}
			items = append(items, discovery.RawItem{Operation: "ListInstances", Payload: raw})
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}
	return items, nil
}
