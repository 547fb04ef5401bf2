// internal/workers/application/record-submission-outcome/models.go
package recordsubmissionoutcome

// Input mirrors the output variables of submit-product-application.
type Input struct {
	CompanyNumber         int    `json:"companyNumber"`
	ProductType           string `json:"productType"`
	ApplicationResultCode int    `json:"applicationResultCode"`
	ApplicationAccepted   bool   `json:"applicationAccepted"`
}

type Output struct {
	SubmissionRecordID string `json:"submissionRecordId"`
	RecordedAt         string `json:"recordedAt"` // ISO 8601
}
