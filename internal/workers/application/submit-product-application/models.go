// internal/workers/application/submit-product-application/models.go
package submitproductapplication

import (
	"encoding/json"

	"product-application-workers/internal/models"
)

type Input struct {
	CompanyData *models.SellerCompanyData `json:"companyData,omitempty"`
	Product     *ProductInput             `json:"product,omitempty"`
}

// ProductInput keeps the variant terms raw until the type is known.
type ProductInput struct {
	Type  models.ProductKind
	Terms json.RawMessage
}

func (p *ProductInput) UnmarshalJSON(data []byte) error {
	var head struct {
		Type models.ProductKind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	p.Type = head.Type
	p.Terms = append(p.Terms[:0], data...)
	return nil
}

// JobRef identifies one execution of the service task.
type JobRef struct {
	ProcessInstanceKey int64
	ElementInstanceKey int64
}

type Output struct {
	ApplicationResultCode int    `json:"applicationResultCode"`
	ApplicationAccepted   bool   `json:"applicationAccepted"`
	ProductType           string `json:"productType"`
	CompanyNumber         int    `json:"companyNumber"`
}
