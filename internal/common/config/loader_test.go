package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
app:
  name: product-application-workers
camunda:
  broker_address: localhost:26500
  plaintext: true
database:
  postgres:
    host: localhost
    database: applications
    user: workers
    password: ${TEST_PG_PASSWORD}
underwriting:
  select_invoice:
    base_url: http://select-invoice.local
  confidential_invoice:
    base_url: http://confidential-invoice.local
    timeout: 5000
  business_loans:
    base_url: http://business-loans.local
    api_key: bl-key
workers:
  submit-product-application:
    enabled: true
  record-submission-outcome:
    enabled: false
    max_jobs_active: 2
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, "http://business-loans.local", cfg.Underwriting.BusinessLoans.BaseURL)
	assert.Equal(t, "bl-key", cfg.Underwriting.BusinessLoans.APIKey)
	assert.Equal(t, 5000, cfg.Underwriting.ConfidentialInvoice.Timeout)
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 15000, cfg.Underwriting.SelectInvoice.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())

	worker := GetWorkerConfig(cfg, "record-submission-outcome")
	assert.Equal(t, 2, worker.MaxJobsActive)
	assert.Equal(t, 30000, worker.Timeout)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("UNDERWRITING_SELECT_INVOICE_API_KEY", "from-env")

	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Underwriting.SelectInvoice.APIKey)
}

func TestLoadFromFile_MissingUnderwritingURL(t *testing.T) {
	yaml := `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: applications
    user: workers
underwriting:
  select_invoice:
    base_url: http://select-invoice.local
  confidential_invoice:
    base_url: http://confidential-invoice.local
`
	_, err := LoadFromFile(writeConfig(t, yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "underwriting.business_loans.base_url is required")
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"record-submission-outcome": {Enabled: false},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "record-submission-outcome"))
	assert.True(t, IsWorkerEnabled(cfg, "submit-product-application"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "unknown").MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "apps", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=apps sslmode=require", p.GetDSN())
}
