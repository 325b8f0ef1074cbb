// Package apiclient wraps the drone survey REST API.
package apiclient

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
	"go.uber.org/zap"

	"github.com/linesmerrill/drone-survey-sync/models"
)

// RequestIDHeader carries the id generated for every outbound request
const RequestIDHeader = "X-Request-ID"

// Client issues requests against the REST base URL. It holds no state
// between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for baseURL, e.g. http://localhost:5000/api
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListOrganizations calls GET /organizations
func (c *Client) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	var resp models.OrganizationsResponse
	if err := c.do(ctx, http.MethodGet, "/organizations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Organizations, nil
}

// CreateOrganization calls POST /organizations
func (c *Client) CreateOrganization(ctx context.Context, in models.OrganizationInput) (models.Organization, error) {
	var resp models.OrganizationResponse
	if err := c.do(ctx, http.MethodPost, "/organizations", in, &resp); err != nil {
		return models.Organization{}, err
	}
	return resp.Organization, nil
}

// Statistics calls GET /organizations/statistics/{organizationID}
func (c *Client) Statistics(ctx context.Context, organizationID string) (models.Statistics, error) {
	var stats models.Statistics
	err := c.do(ctx, http.MethodGet, "/organizations/statistics/"+url.PathEscape(organizationID), nil, &stats)
	return stats, err
}

// ListDrones calls GET /drones?organizationId={organizationID}
func (c *Client) ListDrones(ctx context.Context, organizationID string) ([]models.Drone, error) {
	var resp models.DronesResponse
	if err := c.do(ctx, http.MethodGet, "/drones?"+scopeQuery(organizationID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Drones, nil
}

// CreateDrone calls POST /drones
func (c *Client) CreateDrone(ctx context.Context, in models.DroneInput) (models.Drone, error) {
	var resp models.DroneResponse
	if err := c.do(ctx, http.MethodPost, "/drones", in, &resp); err != nil {
		return models.Drone{}, err
	}
	return resp.Drone, nil
}

// DeleteDrone calls DELETE /drones/{id} and returns the removed drone
func (c *Client) DeleteDrone(ctx context.Context, id string) (models.Drone, error) {
	var resp models.DroneResponse
	if err := c.do(ctx, http.MethodDelete, "/drones/"+url.PathEscape(id), nil, &resp); err != nil {
		return models.Drone{}, err
	}
	return resp.Drone, nil
}

// ListMissions calls GET /missions?organizationId={organizationID}
func (c *Client) ListMissions(ctx context.Context, organizationID string) ([]models.Mission, error) {
	var resp models.MissionsResponse
	if err := c.do(ctx, http.MethodGet, "/missions?"+scopeQuery(organizationID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Missions, nil
}

// CreateMission calls POST /missions. The server answers with either
// {"mission": {...}} or the bare mission document.
func (c *Client) CreateMission(ctx context.Context, in models.MissionInput) (models.Mission, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/missions", in, &raw); err != nil {
		return models.Mission{}, err
	}
	var wrapped struct {
		Mission *models.Mission `json:"mission"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Mission != nil {
		return *wrapped.Mission, nil
	}
	var m models.Mission
	if len(raw) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.Mission{}, fmt.Errorf("decode mission: %w", err)
	}
	return m, nil
}

func scopeQuery(organizationID string) string {
	return url.Values{"organizationId": {organizationID}}.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, path, err)
	}
	requestID := uuid.New().String()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.S().Debugw("request failed", "method", method, "path", path, "requestId", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s %s: %w", method, path, err)
	}
	zap.S().Debugw("request complete",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"requestId", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, requestID, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(status int, requestID string, data []byte) error {
	apiErr := &Error{StatusCode: status, RequestID: requestID}
	var body struct {
		Message string       `json:"message"`
		Error   string       `json:"error"`
		Errors  []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
		apiErr.Fields = body.Errors
	}
	return apiErr
}
