package billinghint

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/consumption/armconsumption"
)

// AzureProvider fetches current month-to-date spend via the Consumption
// usage-details API, adapted from the teacher's FetchAzureBilling.
type AzureProvider struct {
	SubscriptionID string
	Credential     azcore.TokenCredential
}

func (p *AzureProvider) Name() string { return "azure" }

func (p *AzureProvider) FetchHint(ctx context.Context) (Hint, error) {
	client, err := armconsumption.NewUsageDetailsClient(p.Credential, nil)
	if err != nil {
		return Hint{}, err
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	scope := fmt.Sprintf("/subscriptions/%s", p.SubscriptionID)
	filter := fmt.Sprintf("properties/usageStart ge '%s' and properties/usageEnd le '%s'",
		startOfMonth.Format("2006-01-02"), now.Format("2006-01-02"))

	var total float64
	currency := "USD"

	pager := client.NewListPager(scope, &armconsumption.UsageDetailsClientListOptions{Filter: &filter})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return Hint{}, err
		}
		for _, item := range page.Value {
			legacy, ok := item.(*armconsumption.UsageDetail)
			if !ok || legacy.Properties == nil {
				continue
			}
			if legacy.Properties.Cost != nil {
				total += *legacy.Properties.Cost
			}
			if legacy.Properties.Currency != nil && *legacy.Properties.Currency != "" {
				currency = *legacy.Properties.Currency
			}
		}
	}

	return Hint{Provider: "azure", AccountID: p.SubscriptionID, MonthlySpend: total, Currency: currency}, nil
}
