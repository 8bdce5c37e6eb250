package billinghint

import (
	"context"
	"time"

	ocicommon "github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/usageapi"
)

// OCIProvider fetches current month-to-date spend via the Usage API's
// summarized-usage endpoint, adapted from the teacher's FetchOCIBilling.
type OCIProvider struct {
	TenancyOCID     string
	CompartmentOCID string
	Client          usageapi.UsageapiClient
}

func (p *OCIProvider) Name() string { return "oci" }

func (p *OCIProvider) FetchHint(ctx context.Context) (Hint, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	tenancy := p.TenancyOCID
	request := usageapi.RequestSummarizedUsagesRequest{
		RequestSummarizedUsagesDetails: usageapi.RequestSummarizedUsagesDetails{
			TenantId:         &tenancy,
			TimeUsageStarted: &ocicommon.SDKTime{Time: startOfMonth},
			TimeUsageEnded:   &ocicommon.SDKTime{Time: now},
			Granularity:      usageapi.RequestSummarizedUsagesDetailsGranularityMonthly,
			QueryType:        usageapi.RequestSummarizedUsagesDetailsQueryTypeCost,
			CompartmentDepth: ocicommon.Float32(1),
		},
	}

	response, err := p.Client.RequestSummarizedUsages(ctx, request)
	if err != nil {
		return Hint{}, err
	}

	var total float64
	currency := "USD"
	for _, item := range response.Items {
		if item.ComputedAmount != nil {
			total += *item.ComputedAmount
		}
		if item.Currency != nil && *item.Currency != "" {
			currency = *item.Currency
		}
	}

	return Hint{Provider: "oci", AccountID: p.CompartmentOCID, MonthlySpend: total, Currency: currency}, nil
}
