package billinghint

import (
	"context"
	"time"

	"github.com/IBM/platform-services-go-sdk/usagereportsv4"
)

// IBMProvider fetches current-month account usage cost, adapted from the
// teacher's FetchIBMBilling.
type IBMProvider struct {
	AccountID string
	Client    *usagereportsv4.UsageReportsV4
}

func (p *IBMProvider) Name() string { return "ibm" }

func (p *IBMProvider) FetchHint(ctx context.Context) (Hint, error) {
	billingMonth := time.Now().Format("2006-01")

	options := p.Client.NewGetAccountUsageOptions(p.AccountID, billingMonth)
	usage, _, err := p.Client.GetAccountUsageWithContext(ctx, options)
	if err != nil {
		return Hint{}, err
	}

	var total float64
	for _, resource := range usage.Resources {
		if resource.BillableCost != nil {
			total += *resource.BillableCost
		}
	}

	currency := "USD"
	if usage.CurrencyCode != nil && *usage.CurrencyCode != "" {
		currency = *usage.CurrencyCode
	}

	return Hint{Provider: "ibm", AccountID: p.AccountID, MonthlySpend: total, Currency: currency, Note: billingMonth}, nil
}
