// internal/workers/application/submit-product-application/validation.go
package submitproductapplication

import (
	"encoding/json"

	apperrors "product-application-workers/internal/common/errors"
	"product-application-workers/internal/common/validation"
	"product-application-workers/internal/models"
)

var decimalField = map[string]interface{}{
	"type":    []interface{}{"number", "string"},
	"pattern": `^-?[0-9]+(\.[0-9]+)?$`,
}

// companyData and product are optional and nullable here; a missing or null
// value is reported by the router.
var inputSchema = validation.MustCompile(map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"companyData": map[string]interface{}{
			"type":     []interface{}{"object", "null"},
			"required": []interface{}{"number", "name", "founded", "directorName"},
			"properties": map[string]interface{}{
				"number": map[string]interface{}{"type": "integer", "minimum": 0},
				"name":   map[string]interface{}{"type": "string"},
				"founded": map[string]interface{}{
					"type": "string",
					"anyOf": []interface{}{
						map[string]interface{}{"format": "date"},
						map[string]interface{}{"format": "date-time"},
					},
				},
				"directorName": map[string]interface{}{"type": "string"},
			},
		},
		"product": map[string]interface{}{
			"type":     []interface{}{"object", "null"},
			"required": []interface{}{"type"},
			"properties": map[string]interface{}{
				"type": map[string]interface{}{
					"type": "string",
					"enum": kindEnum(),
				},
				"invoiceAmount":        decimalField,
				"advancePercentage":    decimalField,
				"totalLedgerNetworth":  decimalField,
				"vatRate":              decimalField,
				"loanAmount":           decimalField,
				"interestRatePerAnnum": decimalField,
			},
		},
	},
})

func kindEnum() []interface{} {
	kinds := models.ProductKinds()
	enum := make([]interface{}, len(kinds))
	for i, k := range kinds {
		enum[i] = string(k)
	}
	return enum
}

// ParseInput validates raw job variables and decodes them.
func ParseInput(variables []byte) (*Input, error) {
	result, err := inputSchema.Validate(variables)
	if err != nil {
		return nil, apperrors.NewInputParsingError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewValidationFailedError(result.Error())
	}

	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, apperrors.NewInputParsingError(err)
	}
	return &input, nil
}

// ToApplication builds the router's view of the input. A missing product stays nil.
func (in *Input) ToApplication() (*models.SellerApplication, error) {
	app := &models.SellerApplication{CompanyData: in.CompanyData}
	if in.Product == nil {
		return app, nil
	}

	product, err := models.DecodeProduct(in.Product.Type, in.Product.Terms)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	app.Product = product
	return app, nil
}
