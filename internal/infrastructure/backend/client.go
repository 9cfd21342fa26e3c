// internal/infrastructure/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/metrics"
)

// Client calls the storefront REST backend on behalf of a browser session.
// Every call goes through the credential interceptors; none can opt out.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a backend client. base may be nil to use http.DefaultTransport.
func NewClient(baseURL string, store session.Store, base http.RoundTripper, logger *logrus.Logger, rec metrics.Recorder) *Client {
	if base == nil {
		base = http.DefaultTransport
	}
	if rec == nil {
		rec = metrics.Nop{}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No timeout: calls run until the backend answers or the connection fails.
		httpClient: &http.Client{
			Transport: &authTransport{
				base:    base,
				store:   store,
				logger:  logger,
				metrics: rec,
			},
		},
		logger: logger,
	}
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET and decodes the answer into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// Put performs a PUT with a JSON body
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// Patch performs a PATCH with a JSON body
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, in, out)
}

// Delete performs a DELETE; in may be nil or a JSON body
func (c *Client) Delete(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodDelete, path, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).WithError(err).Warn("Backend call failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: ErrorMessage(respBody),
		}
		if endsSession(req, resp.StatusCode) {
			return &SessionExpiredError{RedirectURL: ExpiredRedirectURL, Err: apiErr}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &MalformedResponseError{Path: path, Err: err}
	}
	return nil
}
