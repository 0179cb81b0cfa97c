// Package bmsclient implements the HTTP client side of the EV Battery
// Management System prediction backend: the prediction call itself, the
// lightweight health probe used by the keep-alive scheduler, and the heavier
// wake-up probe for sleeping serverless instances.
package bmsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/types"
)

const (
	defaultPredictTimeout = 90 * time.Second
	defaultHealthTimeout  = 10 * time.Second
	defaultWakeTimeout    = 60 * time.Second

	// Cap on how much of an error response body is kept for messages/logs.
	maxErrorBodyBytes = 2048
)

// Client talks to one backend origin. Per-call deadlines come from the
// configured Timeouts via context so deadline expiry stays distinguishable
// from transport failures.
type Client struct {
	baseURL  string
	http     *http.Client
	timeouts types.Timeouts
}

// New builds a Client for the given backend origin. Trailing slashes on the
// origin are dropped so path joining stays predictable.
func New(baseURL string, timeouts types.Timeouts) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		timeouts: timeouts,
	}
}

// BaseURL returns the backend origin the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) predictTimeout() time.Duration {
	if d := c.timeouts.Predict.Std(); d > 0 {
		return d
	}
	return defaultPredictTimeout
}

func (c *Client) healthTimeout() time.Duration {
	if d := c.timeouts.Health.Std(); d > 0 {
		return d
	}
	return defaultHealthTimeout
}

func (c *Client) wakeTimeout() time.Duration {
	if d := c.timeouts.Wake.Std(); d > 0 {
		return d
	}
	return defaultWakeTimeout
}

// Predict submits one vehicle type and returns the parsed response. The body
// is a multipart form with a single vehicle_type field, matching the
// backend's Form(...) parameter. Exactly one request is issued per call; the
// caller owns any resubmission.
func (c *Client) Predict(ctx context.Context, vehicle types.VehicleType) (*types.PredictionResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("vehicle_type", string(vehicle)); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.predictTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict/", &body)
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", vehicle, err)
	}
	defer resp.Body.Close()
	Debugf("predict %s: status %d in %s", vehicle, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	var pr types.PredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	if pr.Error != "" {
		return nil, &APIError{Message: pr.Error}
	}
	return &pr, nil
}

// Health performs the liveness probe the keep-alive scheduler pings with.
// Any 2xx counts as reachable; the body is discarded.
func (c *Client) Health(ctx context.Context) error {
	return c.probe(ctx, "/health", c.healthTimeout())
}

// Wake hits the backend root with an extended timeout to force a sleeping
// instance to start before a real request.
func (c *Client) Wake(ctx context.Context) error {
	return c.probe(ctx, "/", c.wakeTimeout())
}

func (c *Client) probe(ctx context.Context, path string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// VehicleTypes asks the backend which vehicle values it accepts. Falls back
// is left to the caller; the local enum stays authoritative for validation.
func (c *Client) VehicleTypes(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/vehicle-types", nil)
	if err != nil {
		return nil, fmt.Errorf("build vehicle-types request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vehicle-types: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}
	var out struct {
		VehicleTypes []string `json:"vehicle_types"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode vehicle-types: %w", err)
	}
	return out.VehicleTypes, nil
}

// ResolveChartURL turns the chart reference from a prediction response into
// an absolute URL. Anything already starting with http is used unmodified;
// everything else is treated as a path relative to the backend origin.
func (c *Client) ResolveChartURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.baseURL + raw
}

// FetchChart downloads the rendered chart image. The predict deadline is
// reused; chart PNGs are served from the same instance that just answered.
func (c *Client) FetchChart(ctx context.Context, chartURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.predictTimeout())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResolveChartURL(chartURL), nil)
	if err != nil {
		return nil, fmt.Errorf("build chart request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chart: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chart: %w", err)
	}
	return b, nil
}

func readErrorBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	return strings.TrimSpace(string(b))
}
