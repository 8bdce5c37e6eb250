package billinghint

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/costexplorer"
)

// AWSProvider fetches current month-to-date spend via Cost Explorer's
// blended cost metric, adapted from the teacher's FetchAWSBilling.
type AWSProvider struct {
	AccountID string
	Session   *session.Session
}

func (p *AWSProvider) Name() string { return "aws" }

func (p *AWSProvider) FetchHint(ctx context.Context) (Hint, error) {
	ce := costexplorer.New(p.Session)

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	result, err := ce.GetCostAndUsageWithContext(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod: &costexplorer.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(now.Format("2006-01-02")),
		},
		Granularity: aws.String("MONTHLY"),
		Metrics:     []*string{aws.String("BlendedCost")},
	})
	if err != nil {
		return Hint{}, err
	}

	var spend float64
	currency := "USD"
	if len(result.ResultsByTime) > 0 {
		if cost, ok := result.ResultsByTime[0].Total["BlendedCost"]; ok && cost.Amount != nil {
			parsed, perr := parseAmount(*cost.Amount)
			if perr == nil {
				spend = parsed
			}
			if cost.Unit != nil && *cost.Unit != "" {
				currency = *cost.Unit
			}
		}
	}

	return Hint{Provider: "aws", AccountID: p.AccountID, MonthlySpend: spend, Currency: currency}, nil
}
