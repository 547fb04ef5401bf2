// Package productapplication routes a seller application to the underwriting
// service that handles its product and normalizes the answer into one result code.
package productapplication

import (
	"context"
	"fmt"
	"strconv"

	"product-application-workers/internal/common/logger"
	"product-application-workers/internal/external"
	"product-application-workers/internal/models"
)

// UnsuccessfulApplicationCode is returned when an underwriting service answered
// but did not accept the application.
const UnsuccessfulApplicationCode = -1

const (
	fieldCompanyData = "CompanyData"
	fieldProduct     = "Product"
)

// Service holds no per-call state and is safe for concurrent use.
type Service struct {
	selectInvoice       external.SelectInvoiceService
	confidentialInvoice external.ConfidentialInvoiceService
	businessLoans       external.BusinessLoansService
	logger              logger.Logger
}

func NewService(
	selectInvoice external.SelectInvoiceService,
	confidentialInvoice external.ConfidentialInvoiceService,
	businessLoans external.BusinessLoansService,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		selectInvoice:       selectInvoice,
		confidentialInvoice: confidentialInvoice,
		businessLoans:       businessLoans,
		logger:              log,
	}
}

// SubmitApplicationFor submits application to exactly one underwriting service and
// returns the application id it assigned, the selective invoice result code, or
// UnsuccessfulApplicationCode. Validation failures are *ArgumentError; service
// errors are returned as received.
func (s *Service) SubmitApplicationFor(ctx context.Context, application *models.SellerApplication) (int, error) {
	if application == nil || application.CompanyData == nil {
		return 0, &ArgumentError{Field: fieldCompanyData, Reason: "company data is required"}
	}
	if application.Product == nil {
		return 0, &ArgumentError{Field: fieldProduct, Reason: "product is required"}
	}

	switch product := application.Product.(type) {
	case models.SelectiveInvoiceDiscount:
		code, err := s.selectInvoice.SubmitApplicationFor(
			ctx,
			strconv.Itoa(application.CompanyData.Number),
			product.InvoiceAmount,
			product.AdvancePercentage,
		)
		if err != nil {
			return 0, s.noteFailure(product.Kind(), application.CompanyData, err)
		}
		return code, nil

	case models.ConfidentialInvoiceDiscount:
		result, err := s.confidentialInvoice.SubmitApplicationFor(
			ctx,
			companyDataRequest(application.CompanyData),
			product.TotalLedgerNetworth,
			product.AdvancePercentage,
			product.VatRate,
		)
		if err != nil {
			return 0, s.noteFailure(product.Kind(), application.CompanyData, err)
		}
		return s.normalize(product.Kind(), result), nil

	case models.BusinessLoans:
		result, err := s.businessLoans.SubmitApplicationFor(
			ctx,
			companyDataRequest(application.CompanyData),
			external.LoansRequest{
				InterestRatePerAnnum: product.InterestRatePerAnnum,
				LoanAmount:           product.LoanAmount,
			},
		)
		if err != nil {
			return 0, s.noteFailure(product.Kind(), application.CompanyData, err)
		}
		return s.normalize(product.Kind(), result), nil

	default:
		return 0, &ArgumentError{
			Field:  fieldProduct,
			Reason: fmt.Sprintf("unsupported product type %T", application.Product),
		}
	}
}

func (s *Service) normalize(kind models.ProductKind, result *external.ApplicationResult) int {
	if result == nil {
		s.logger.Warn("underwriting service returned no result", map[string]interface{}{
			"product": string(kind),
		})
		return UnsuccessfulApplicationCode
	}

	if len(result.Errors) > 0 {
		s.logger.Warn("underwriting service reported errors", map[string]interface{}{
			"product": string(kind),
			"success": result.Success,
			"errors":  result.Errors,
		})
	}

	if !result.Success || result.ApplicationID == nil {
		return UnsuccessfulApplicationCode
	}
	return *result.ApplicationID
}

func (s *Service) noteFailure(kind models.ProductKind, company *models.SellerCompanyData, err error) error {
	s.logger.Error("underwriting submission failed", map[string]interface{}{
		"product":       string(kind),
		"companyNumber": company.Number,
		"error":         err,
	})
	return err
}

func companyDataRequest(company *models.SellerCompanyData) external.CompanyDataRequest {
	return external.CompanyDataRequest{
		CompanyFounded: company.Founded,
		CompanyNumber:  company.Number,
		CompanyName:    company.Name,
		DirectorName:   company.DirectorName,
	}
}
