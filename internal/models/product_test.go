package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProduct(t *testing.T) {
	tests := []struct {
		name     string
		kind     ProductKind
		raw      string
		expected Product
	}{
		{
			name: "selective invoice discount",
			kind: KindSelectiveInvoiceDiscount,
			raw:  `{"invoiceAmount": "1500.50", "advancePercentage": 80}`,
			expected: SelectiveInvoiceDiscount{
				InvoiceAmount:     decimal.RequireFromString("1500.50"),
				AdvancePercentage: decimal.NewFromInt(80),
			},
		},
		{
			name: "confidential invoice discount",
			kind: KindConfidentialInvoiceDiscount,
			raw:  `{"totalLedgerNetworth": "250000", "advancePercentage": "75.5", "vatRate": "0.2"}`,
			expected: ConfidentialInvoiceDiscount{
				TotalLedgerNetworth: decimal.NewFromInt(250000),
				AdvancePercentage:   decimal.RequireFromString("75.5"),
				VatRate:             decimal.RequireFromString("0.2"),
			},
		},
		{
			name: "business loans",
			kind: KindBusinessLoans,
			raw:  `{"loanAmount": 10000, "interestRatePerAnnum": "7.25"}`,
			expected: BusinessLoans{
				LoanAmount:           decimal.NewFromInt(10000),
				InterestRatePerAnnum: decimal.RequireFromString("7.25"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := DecodeProduct(tt.kind, json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, product.Kind())
			assert.Equal(t, tt.expected.Kind(), product.Kind())

			switch want := tt.expected.(type) {
			case SelectiveInvoiceDiscount:
				got := product.(SelectiveInvoiceDiscount)
				assert.True(t, want.InvoiceAmount.Equal(got.InvoiceAmount))
				assert.True(t, want.AdvancePercentage.Equal(got.AdvancePercentage))
			case ConfidentialInvoiceDiscount:
				got := product.(ConfidentialInvoiceDiscount)
				assert.True(t, want.TotalLedgerNetworth.Equal(got.TotalLedgerNetworth))
				assert.True(t, want.AdvancePercentage.Equal(got.AdvancePercentage))
				assert.True(t, want.VatRate.Equal(got.VatRate))
			case BusinessLoans:
				got := product.(BusinessLoans)
				assert.True(t, want.LoanAmount.Equal(got.LoanAmount))
				assert.True(t, want.InterestRatePerAnnum.Equal(got.InterestRatePerAnnum))
			}
		})
	}
}

func TestDecodeProduct_UnknownKind(t *testing.T) {
	product, err := DecodeProduct("factoring", json.RawMessage(`{}`))

	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "unknown product type")
}

func TestDecodeProduct_MalformedTerms(t *testing.T) {
	product, err := DecodeProduct(KindBusinessLoans, json.RawMessage(`{"loanAmount": "lots"}`))

	assert.Error(t, err)
	assert.Nil(t, product)
}

func TestProductKinds(t *testing.T) {
	kinds := ProductKinds()

	assert.Len(t, kinds, 3)
	assert.Equal(t, KindSelectiveInvoiceDiscount, SelectiveInvoiceDiscount{}.Kind())
	assert.Equal(t, KindConfidentialInvoiceDiscount, ConfidentialInvoiceDiscount{}.Kind())
	assert.Equal(t, KindBusinessLoans, BusinessLoans{}.Kind())
}
