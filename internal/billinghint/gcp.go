package billinghint

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// GCPProvider fetches current month-to-date spend from a BigQuery billing
// export dataset, adapted from the teacher's FetchGCPBillingFromBigQuery.
// GCP's native Cloud Billing API exposes billing-enabled status but not
// cost figures, so BigQuery export is the only path that yields a number.
type GCPProvider struct {
	ProjectID      string
	BillingDataset string
	BillingTable   string
	Client         *bigquery.Client
}

func (p *GCPProvider) Name() string { return "gcp" }

func (p *GCPProvider) FetchHint(ctx context.Context) (Hint, error) {
	if p.BillingDataset == "" {
		return Hint{Provider: "gcp", AccountID: p.ProjectID, Note: "no billing export dataset configured"}, nil
	}

	tableRef := p.BillingDataset
	if p.BillingTable != "" {
		tableRef = fmt.Sprintf("%s.%s", p.BillingDataset, p.BillingTable)
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	query := p.Client.Query(fmt.Sprintf(`
		SELECT SUM(cost) as total_cost, currency
		FROM `+"`%s`"+`
		WHERE project.id = @projectId
		AND DATE(usage_start_time) >= @startDate
		AND DATE(usage_start_time) <= @endDate
		GROUP BY currency
		ORDER BY total_cost DESC
		LIMIT 1
	`, tableRef))
	query.Parameters = []bigquery.QueryParameter{
		{Name: "projectId", Value: p.ProjectID},
		{Name: "startDate", Value: startOfMonth.Format("2006-01-02")},
		{Name: "endDate", Value: now.Format("2006-01-02")},
	}

	it, err := query.Read(ctx)
	if err != nil {
		return Hint{}, err
	}

	var row struct {
		TotalCost float64 `bigquery:"total_cost"`
		Currency  string  `bigquery:"currency"`
	}
	if err := it.Next(&row); err == iterator.Done {
		return Hint{Provider: "gcp", AccountID: p.ProjectID, Note: "no billing data for current month"}, nil
	} else if err != nil {
		return Hint{}, err
	}

	currency := row.Currency
	if currency == "" {
		currency = "USD"
	}
	return Hint{Provider: "gcp", AccountID: p.ProjectID, MonthlySpend: row.TotalCost, Currency: currency}, nil
}
