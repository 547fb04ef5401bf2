package underwriting

import (
	"context"

	"github.com/shopspring/decimal"

	"product-application-workers/internal/common/config"
	"product-application-workers/internal/external"
)

const (
	ServiceSelectInvoice       = "select-invoice"
	ServiceConfidentialInvoice = "confidential-invoice"
	ServiceBusinessLoans       = "business-loans"
)

// SelectInvoiceClient implements external.SelectInvoiceService.
type SelectInvoiceClient struct {
	*client
}

type selectInvoiceRequest struct {
	CompanyNumber     string          `json:"companyNumber"`
	InvoiceAmount     decimal.Decimal `json:"invoiceAmount"`
	AdvancePercentage decimal.Decimal `json:"advancePercentage"`
}

type selectInvoiceResponse struct {
	Code *int `json:"code"`
}

func NewSelectInvoiceClient(cfg config.ServiceEndpoint) *SelectInvoiceClient {
	return &SelectInvoiceClient{client: newClient(ServiceSelectInvoice, cfg)}
}

func (c *SelectInvoiceClient) SubmitApplicationFor(ctx context.Context, companyNumber string, invoiceAmount, advancePercentage decimal.Decimal) (int, error) {
	var resp selectInvoiceResponse
	err := c.postJSON(ctx, applicationsPath, selectInvoiceRequest{
		CompanyNumber:     companyNumber,
		InvoiceAmount:     invoiceAmount,
		AdvancePercentage: advancePercentage,
	}, &resp)
	if err != nil {
		return 0, err
	}
	if resp.Code == nil {
		return 0, errMissingField(c.service, "code")
	}
	return *resp.Code, nil
}

// ConfidentialInvoiceClient implements external.ConfidentialInvoiceService.
type ConfidentialInvoiceClient struct {
	*client
}

type confidentialInvoiceRequest struct {
	CompanyData         external.CompanyDataRequest `json:"companyData"`
	TotalLedgerNetworth decimal.Decimal             `json:"totalLedgerNetworth"`
	AdvancePercentage   decimal.Decimal             `json:"advancePercentage"`
	VatRate             decimal.Decimal             `json:"vatRate"`
}

func NewConfidentialInvoiceClient(cfg config.ServiceEndpoint) *ConfidentialInvoiceClient {
	return &ConfidentialInvoiceClient{client: newClient(ServiceConfidentialInvoice, cfg)}
}

func (c *ConfidentialInvoiceClient) SubmitApplicationFor(ctx context.Context, companyData external.CompanyDataRequest, totalLedgerNetworth, advancePercentage, vatRate decimal.Decimal) (*external.ApplicationResult, error) {
	var result external.ApplicationResult
	err := c.postJSON(ctx, applicationsPath, confidentialInvoiceRequest{
		CompanyData:         companyData,
		TotalLedgerNetworth: totalLedgerNetworth,
		AdvancePercentage:   advancePercentage,
		VatRate:             vatRate,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// BusinessLoansClient implements external.BusinessLoansService.
type BusinessLoansClient struct {
	*client
}

type businessLoansRequest struct {
	CompanyData  external.CompanyDataRequest `json:"companyData"`
	LoansRequest external.LoansRequest       `json:"loansRequest"`
}

func NewBusinessLoansClient(cfg config.ServiceEndpoint) *BusinessLoansClient {
	return &BusinessLoansClient{client: newClient(ServiceBusinessLoans, cfg)}
}

func (c *BusinessLoansClient) SubmitApplicationFor(ctx context.Context, companyData external.CompanyDataRequest, loans external.LoansRequest) (*external.ApplicationResult, error) {
	var result external.ApplicationResult
	err := c.postJSON(ctx, applicationsPath, businessLoansRequest{
		CompanyData:  companyData,
		LoansRequest: loans,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

var (
	_ external.SelectInvoiceService       = (*SelectInvoiceClient)(nil)
	_ external.ConfidentialInvoiceService = (*ConfidentialInvoiceClient)(nil)
	_ external.BusinessLoansService       = (*BusinessLoansClient)(nil)
)
