// internal/models/product.go
package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductKind is the wire discriminator of a financing product.
type ProductKind string

const (
	KindSelectiveInvoiceDiscount    ProductKind = "selectiveInvoiceDiscount"
	KindConfidentialInvoiceDiscount ProductKind = "confidentialInvoiceDiscount"
	KindBusinessLoans               ProductKind = "businessLoans"
)

// Product is one of the financing offerings a seller can apply for.
// The supported set is SelectiveInvoiceDiscount, ConfidentialInvoiceDiscount and BusinessLoans.
type Product interface {
	Kind() ProductKind
}

type SelectiveInvoiceDiscount struct {
	InvoiceAmount     decimal.Decimal `json:"invoiceAmount"`
	AdvancePercentage decimal.Decimal `json:"advancePercentage"`
}

func (SelectiveInvoiceDiscount) Kind() ProductKind { return KindSelectiveInvoiceDiscount }

type ConfidentialInvoiceDiscount struct {
	TotalLedgerNetworth decimal.Decimal `json:"totalLedgerNetworth"`
	AdvancePercentage   decimal.Decimal `json:"advancePercentage"`
	VatRate             decimal.Decimal `json:"vatRate"`
}

func (ConfidentialInvoiceDiscount) Kind() ProductKind { return KindConfidentialInvoiceDiscount }

type BusinessLoans struct {
	LoanAmount           decimal.Decimal `json:"loanAmount"`
	InterestRatePerAnnum decimal.Decimal `json:"interestRatePerAnnum"`
}

func (BusinessLoans) Kind() ProductKind { return KindBusinessLoans }

// ProductKinds lists the supported discriminators in a stable order.
func ProductKinds() []ProductKind {
	return []ProductKind{
		KindSelectiveInvoiceDiscount,
		KindConfidentialInvoiceDiscount,
		KindBusinessLoans,
	}
}

// DecodeProduct builds the concrete product for kind from its JSON terms.
func DecodeProduct(kind ProductKind, raw json.RawMessage) (Product, error) {
	switch kind {
	case KindSelectiveInvoiceDiscount:
		var p SelectiveInvoiceDiscount
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		return p, nil
	case KindConfidentialInvoiceDiscount:
		var p ConfidentialInvoiceDiscount
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		return p, nil
	case KindBusinessLoans:
		var p BusinessLoans
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown product type %q", kind)
	}
}
