//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-application-workers/internal/common/config"
	"product-application-workers/internal/common/database"
	apperrors "product-application-workers/internal/common/errors"
	"product-application-workers/internal/common/logger"
	"product-application-workers/internal/common/underwriting"
	"product-application-workers/internal/productapplication"

	recordsubmissionoutcome "product-application-workers/internal/workers/application/record-submission-outcome"
	submitproductapplication "product-application-workers/internal/workers/application/submit-product-application"
)

// Requires postgres and redis from configs/config.yaml (or E2E_CONFIG).
func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	if path := os.Getenv("E2E_CONFIG"); path != "" {
		cfg, err := config.LoadFromFile(path)
		require.NoError(t, err)
		return cfg
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func underwritingStub(t *testing.T, body string) config.ServiceEndpoint {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return config.ServiceEndpoint{BaseURL: server.URL, Timeout: 2000}
}

func TestSubmitAndRecord(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := loadConfig(t)
	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.Ping(ctx), "postgres not reachable")

	store := database.NewSubmissionStore(pg.DB)
	require.NoError(t, store.EnsureSchema(ctx))

	rc, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rc.Close()
	require.NoError(t, rc.Ping(ctx), "redis not reachable")

	router := productapplication.NewService(
		underwriting.NewSelectInvoiceClient(underwritingStub(t, `{"code": 3}`)),
		underwriting.NewConfidentialInvoiceClient(underwritingStub(t, `{"success": true, "applicationId": 77}`)),
		underwriting.NewBusinessLoansClient(underwritingStub(t, `{"success": false, "errors": ["declined"]}`)),
		log,
	)

	submit := submitproductapplication.NewHandler(
		&submitproductapplication.Config{Timeout: 10 * time.Second},
		router,
		database.NewSubmissionCache(rc.Client, time.Minute),
		nil,
		log,
	)
	record := recordsubmissionoutcome.NewHandler(&recordsubmissionoutcome.Config{Timeout: 10 * time.Second}, store, log)

	processInstanceKey := time.Now().UnixNano()
	ref := submitproductapplication.JobRef{ProcessInstanceKey: processInstanceKey, ElementInstanceKey: processInstanceKey + 1}

	input, err := submitproductapplication.ParseInput([]byte(`{
		"companyData": {"number": 12345678, "name": "Acme Ltd", "founded": "2015-03-01T00:00:00Z", "directorName": "J. Smith"},
		"product": {"type": "confidentialInvoiceDiscount", "totalLedgerNetworth": 50000, "advancePercentage": 0.75, "vatRate": 0.2}
	}`))
	require.NoError(t, err)

	submitted, err := submit.Execute(ctx, ref, input)
	require.NoError(t, err)
	assert.Equal(t, 77, submitted.ApplicationResultCode)
	assert.True(t, submitted.ApplicationAccepted)

	cached, err := rc.Client.Get(ctx, database.SubmissionCacheKey(ref.ProcessInstanceKey, ref.ElementInstanceKey)).Result()
	require.NoError(t, err)
	assert.Equal(t, "77", cached)

	recorded, err := record.Execute(ctx, processInstanceKey, &recordsubmissionoutcome.Input{
		CompanyNumber:         submitted.CompanyNumber,
		ProductType:           submitted.ProductType,
		ApplicationResultCode: submitted.ApplicationResultCode,
		ApplicationAccepted:   submitted.ApplicationAccepted,
	})
	require.NoError(t, err)

	stored, err := store.FindByProcessInstance(ctx, processInstanceKey)
	require.NoError(t, err)
	assert.Equal(t, recorded.SubmissionRecordID, stored.ID)
	assert.Equal(t, "confidentialInvoiceDiscount", stored.ProductType)

	_, err = record.Execute(ctx, processInstanceKey, &recordsubmissionoutcome.Input{})
	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeDuplicateSubmission, stdErr.Code, fmt.Sprintf("unexpected error: %v", err))
}
