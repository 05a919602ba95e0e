package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
	"github.com/supergeri/workout-content-transformation-sub001/internal/session"
)

// HTTPClient implements DataSource by calling the Planmap REST API. Used for
// remote MCP mode where the binary runs locally (stdio) but the editing
// sessions live on the daemon.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	return data, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, doc *models.WorkoutStructure) (session.Snapshot, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/sessions", nil, doc)
	if err != nil {
		return session.Snapshot{}, err
	}
	var snap session.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("httpclient: decode snapshot: %w", err)
	}
	return snap, nil
}

func (c *HTTPClient) GetSnapshot(ctx context.Context, id uuid.UUID) (session.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+id.String(), nil, nil)
	if err != nil {
		return session.Snapshot{}, err
	}
	var snap session.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("httpclient: decode snapshot: %w", err)
	}
	return snap, nil
}

func (c *HTTPClient) ApplyCommand(ctx context.Context, id uuid.UUID, cmd session.Command) (session.Snapshot, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+id.String()+"/commands", nil, cmd)
	if err != nil {
		return session.Snapshot{}, err
	}
	var snap session.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("httpclient: decode snapshot: %w", err)
	}
	return snap, nil
}

func (c *HTTPClient) ProjectWorkout(ctx context.Context, id uuid.UUID, device models.Device) (*models.WorkoutStructure, error) {
	params := url.Values{}
	params.Set("device", string(device))

	body, err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+id.String()+"/project", params, nil)
	if err != nil {
		return nil, err
	}
	var doc models.WorkoutStructure
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return &doc, nil
}

func (c *HTTPClient) Sessions(ctx context.Context) ([]session.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/sessions", nil, nil)
	if err != nil {
		return nil, err
	}
	var snaps []session.Snapshot
	if err := json.Unmarshal(body, &snaps); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return snaps, nil
}
