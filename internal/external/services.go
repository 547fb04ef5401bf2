// Package external declares the contracts of the underwriting services a seller
// application can be submitted to, and the values exchanged with them.
package external

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CompanyDataRequest describes the applying company to the confidential invoice
// and business loans services.
type CompanyDataRequest struct {
	CompanyFounded time.Time `json:"companyFounded"`
	CompanyNumber  int       `json:"companyNumber"`
	CompanyName    string    `json:"companyName"`
	DirectorName   string    `json:"directorName"`
}

type LoansRequest struct {
	InterestRatePerAnnum decimal.Decimal `json:"interestRatePerAnnum"`
	LoanAmount           decimal.Decimal `json:"loanAmount"`
}

// ApplicationResult is returned by the confidential invoice and business loans services.
// ApplicationID is only meaningful when Success is true.
type ApplicationResult struct {
	Success       bool     `json:"success"`
	ApplicationID *int     `json:"applicationId,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

// SelectInvoiceService answers with a bare result code.
type SelectInvoiceService interface {
	SubmitApplicationFor(ctx context.Context, companyNumber string, invoiceAmount, advancePercentage decimal.Decimal) (int, error)
}

type ConfidentialInvoiceService interface {
	SubmitApplicationFor(ctx context.Context, companyData CompanyDataRequest, totalLedgerNetworth, advancePercentage, vatRate decimal.Decimal) (*ApplicationResult, error)
}

type BusinessLoansService interface {
	SubmitApplicationFor(ctx context.Context, companyData CompanyDataRequest, loans LoansRequest) (*ApplicationResult, error)
}
