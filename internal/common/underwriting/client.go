// Package underwriting holds HTTP clients for the underwriting services a
// seller application is submitted to.
package underwriting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"product-application-workers/internal/common/config"
)

const applicationsPath = "/applications"

// client is the JSON-over-HTTP plumbing shared by the three services.
type client struct {
	service    string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newClient(service string, cfg config.ServiceEndpoint) *client {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &client{
		service: service,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// postJSON sends payload once and decodes a 2xx body into out.
func (c *client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to marshal request", c.service)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return errors.Wrapf(err, "%s: failed to create request", c.service)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to execute request", c.service)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to read response body", c.service)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Service: c.service, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "%s: failed to decode response", c.service)
	}

	return nil
}

// Ping checks GET {base}/health.
func (c *client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to create health request", c.service)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s: health check failed", c.service)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s: health check returned status %d", c.service, resp.StatusCode)
	}
	return nil
}

// Name returns the service name used in errors and readiness output.
func (c *client) Name() string {
	return c.service
}

// StatusError is returned when a service answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Service, e.StatusCode, strings.TrimSpace(e.Body))
}

func errMissingField(service, field string) error {
	return errors.Errorf("%s: response is missing %q", service, field)
}
