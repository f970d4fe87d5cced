package cad

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cbmmg/painel-cad/internal/painel/provider"
)

// Client is an HTTP client for the upstream CAD incident export.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new CAD export client. The timeout bounds the whole
// request so a slow upstream cannot stall a refresh.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = provider.DefaultFetchTimeout
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the full incident export as raw records.
func (c *Client) Fetch(ctx context.Context) ([]RawOcorrencia, error) {
	start := time.Now()
	provider.LogRequest("cad", "GET", c.url, nil)

	req, err := http.NewRequestWithContext(ctx, "GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// The export changes between refreshes; keep intermediaries from
	// serving a stale body.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		provider.LogError("cad", "fetch", err)
		return nil, fmt.Errorf("cad request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("cad status %d", resp.StatusCode)
		provider.LogError("cad", "fetch", err)
		return nil, err
	}

	var registros []RawOcorrencia
	if err := json.NewDecoder(resp.Body).Decode(&registros); err != nil {
		provider.LogError("cad", "decode", err)
		return nil, fmt.Errorf("decode response: %w", err)
	}

	provider.LogResponse("cad", resp.StatusCode, time.Since(start), len(registros))
	return registros, nil
}

// HealthCheck verifies the export endpoint is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}

	return nil
}

// Loader composes Fetch and Normalize into the load step of the refresh
// pipeline.
type Loader struct {
	client *Client
}

// NewLoader creates a Loader over a CAD client.
func NewLoader(client *Client) *Loader {
	return &Loader{client: client}
}

// Load fetches and normalizes the full incident table. It fails soft: any
// upstream failure is logged and yields an empty table, so callers always
// receive a usable (possibly zero-row) table and never an error.
func (l *Loader) Load(ctx context.Context) Tabela {
	raw, err := l.client.Fetch(ctx)
	if err != nil {
		provider.LogError("cad", "load", err)
		return Tabela{}
	}

	start := time.Now()
	tabela := Normalize(raw)
	provider.LogTransform("cad", len(raw), len(tabela), time.Since(start))
	return tabela
}
