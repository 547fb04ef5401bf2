// internal/models/application.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// FoundedDateLayout is accepted for Founded alongside RFC 3339 timestamps.
const FoundedDateLayout = "2006-01-02"

// SellerApplication bundles a seller's company data with the financing product it applies for.
// Both fields are optional on the wire; the router rejects an application missing either one.
type SellerApplication struct {
	CompanyData *SellerCompanyData `json:"companyData,omitempty"`
	Product     Product            `json:"-"`
}

// SellerCompanyData identifies the company behind an application.
type SellerCompanyData struct {
	Number       int       `json:"number"`
	Name         string    `json:"name"`
	Founded      time.Time `json:"founded"`
	DirectorName string    `json:"directorName"`
}

// UnmarshalJSON accepts founded as a full timestamp or a plain YYYY-MM-DD date (UTC midnight).
func (c *SellerCompanyData) UnmarshalJSON(data []byte) error {
	type alias SellerCompanyData
	var raw struct {
		alias
		Founded string `json:"founded"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = SellerCompanyData(raw.alias)
	if raw.Founded == "" {
		c.Founded = time.Time{}
		return nil
	}

	founded, err := time.Parse(time.RFC3339, raw.Founded)
	if err != nil {
		founded, err = time.Parse(FoundedDateLayout, raw.Founded)
		if err != nil {
			return fmt.Errorf("founded %q is neither a date nor an RFC 3339 timestamp", raw.Founded)
		}
	}
	c.Founded = founded
	return nil
}
