package billinghint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	name string
	hint Hint
	err  error
}

func (s stubProvider) Name() string { return s.name }
func (s stubProvider) FetchHint(ctx context.Context) (Hint, error) {
	return s.hint, s.err
}

func TestFetchAllSkipsFailingProviders(t *testing.T) {
	providers := []Provider{
		stubProvider{name: "aws", hint: Hint{Provider: "aws", MonthlySpend: 42}},
		stubProvider{name: "azure", err: errors.New("no credentials configured")},
		stubProvider{name: "gcp", hint: Hint{Provider: "gcp", MonthlySpend: 7}},
	}

	hints := FetchAll(context.Background(), providers)

	assert.Len(t, hints, 2)
	assert.Equal(t, "aws", hints[0].Provider)
	assert.Equal(t, "gcp", hints[1].Provider)
}

func TestFetchAllNeverPanicsOnAllFailing(t *testing.T) {
	providers := []Provider{
		stubProvider{name: "aws", err: errors.New("boom")},
	}
	assert.Empty(t, FetchAll(context.Background(), providers))
}

func TestParseAmountHandlesAWSDecimalStrings(t *testing.T) {
	v, err := parseAmount("123.456")
	assert.NoError(t, err)
	assert.InDelta(t, 123.456, v, 0.0001)
}
