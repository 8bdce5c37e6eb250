// Package azurebackend is a supplemental CloudBackend: virtual machines
// only, proving the CloudBackend interface generalizes past AWS. Adapted
// read-only from the teacher's VM deallocation path, which this backend
// turns into a pure listing call.
package azurebackend

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"

	"github.com/dillib/cloudbom/internal/discovery"
	"github.com/dillib/cloudbom/internal/errkind"
)

// Backend lists Azure virtual machines across a subscription. Azure's
// resource model has no region-scoped listing equivalent to AWS's regional
// API endpoints, so every call uses the subscription-wide "all" pager and
// the (service, region) unit collapses to a single global unit.
type Backend struct {
	vmClient       *armcompute.VirtualMachinesClient
	subscriptionID string
}

// New builds a Backend from an already-authenticated Azure credential.
func New(cred azcore.TokenCredential, subscriptionID string) (*Backend, error) {
	client, err := armcompute.NewVirtualMachinesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, errkind.Wrap(errkind.CredentialError, err, "failed to create Azure VM client")
	}
	return &Backend{vmClient: client, subscriptionID: subscriptionID}, nil
}

func (b *Backend) Name() string         { return "azure" }
func (b *Backend) Services() []string   { return []string{"compute"} }
func (b *Backend) GlobalRegion() string { return "global" }

// Discover lists every virtual machine in the subscription. Azure VMs carry
// no separate "operation" concept the way AWS does, so call.Operation is
// ignored; the Field Mapper sees a single synthetic operation name.
func (b *Backend) Discover(ctx context.Context, call discovery.CallParams) ([]discovery.RawItem, error) {
	if call.Service != "compute" {
		return nil, errkind.New(errkind.UnexpectedError, "azure backend has no service "+call.Service)
	}

	var items []discovery.RawItem
	pager := b.vmClient.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classifyAzureErr(err)
		}
		for _, vm := range page.Value {
			raw, err := json.Marshal(vm)
			if err != nil {
				continue
			}
			items = append(items, discovery.RawItem{Operation: "ListVirtualMachines", Payload: raw})
		}
	}
	return items, nil
}

func classifyAzureErr(err error) error {
	if err == nil {
		return nil
	}
	return errkind.Wrap(errkind.Transient, err, "azure VM listing failed")
}
