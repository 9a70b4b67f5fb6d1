package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blogem/insurance-rates/models"
)

// IngestPath is where the log service accepts event batches.
const IngestPath = "/api/v1/logs/"

// HTTPTransport posts event batches to the log service ingestion endpoint.
type HTTPTransport struct {
	url    string
	client *http.Client
}

// NewHTTPTransport creates a transport for the log service at baseURL.
// A nil client gets a default with a 10 second timeout.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPTransport{
		url:    strings.TrimRight(baseURL, "/") + IngestPath,
		client: client,
	}
}

// Send posts the batch. 4xx responses other than 408 and 429 are permanent;
// everything else that is not a 2xx is worth retrying.
func (t *HTTPTransport) Send(ctx context.Context, events []models.AuditEvent) error {
	body, err := json.Marshal(events)
	if err != nil {
		return Permanent(fmt.Errorf("marshal events: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return Permanent(fmt.Errorf("build ingest request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post events to log service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("log service answered %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusRequestTimeout && resp.StatusCode != http.StatusTooManyRequests {
		return Permanent(err)
	}
	return err
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
