// Package clients implements the collaborator ports over JSON/HTTP.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/metrics"
)

// StatusError is returned when a collaborator answers with a non-2xx status.
type StatusError struct {
	Service string
	Path    string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Service, e.Path, e.Status)
}

// jsonClient sends JSON requests to one collaborator. The caller supplied
// http.Client sets the per call bound; ctx cancellation also ends a call.
type jsonClient struct {
	service    string
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func newJSONClient(service, baseURL string, httpClient *http.Client, m *metrics.Metrics, logger *zap.Logger) *jsonClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &jsonClient{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		metrics:    m,
		logger:     logger.With(zap.String("service", service)),
	}
}

// do sends body (if any) to path and decodes the response into out (if any).
func (c *jsonClient) do(ctx context.Context, method, path string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		c.observe(path, start, err)
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", c.service, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("collaborator request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", c.service, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("collaborator returned non-2xx status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(responseBody)),
		)
		return &StatusError{Service: c.service, Path: path, Status: resp.StatusCode, Body: string(responseBody)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.service, err)
	}
	return nil
}

func (c *jsonClient) observe(path string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	route, _, _ := strings.Cut(path, "?")
	c.metrics.CollaboratorDuration.
		WithLabelValues(c.service, route, outcome).
		Observe(time.Since(start).Seconds())
}
