package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"meterocr/internal/meter"
)

const defaultTimeout = 30 * time.Second

// maxResponseBytes bounds how much of an OCR response body is read.
const maxResponseBytes = 1 << 20

var (
	// ErrTimeout reports that the OCR service did not answer in time.
	ErrTimeout = errors.New("ocr service timed out")
	// ErrUnavailable reports a transport failure or a non-2xx status.
	ErrUnavailable = errors.New("ocr service unavailable")
	// ErrMalformedResponse reports a response without a usable field mapping.
	ErrMalformedResponse = errors.New("ocr response has no field mapping")
)

type extractRequest struct {
	ImageURL string `json:"imageUrl"`
}

type extractResponse struct {
	Fields map[string]json.RawMessage `json:"fields"`
}

// Client calls the remote OCR service.
type Client struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient returns a Client with sane defaults.
func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint:   endpoint,
		Timeout:    defaultTimeout,
		HTTPClient: &http.Client{},
	}
}

// ExtractFields asks the OCR service to read the image at imageURL.
func (c *Client) ExtractFields(ctx context.Context, imageURL string) (meter.FieldMap, error) {
	if c.Endpoint == "" {
		return nil, errors.New("ocr endpoint is required")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	payload, err := json.Marshal(extractRequest{ImageURL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %v", ErrTimeout, timeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w reading body: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, truncate(body, 200))
	}

	return parseFields(body)
}

func parseFields(body []byte) (meter.FieldMap, error) {
	var out extractResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.Fields == nil {
		return nil, ErrMalformedResponse
	}

	fields := make(meter.FieldMap, len(out.Fields))
	for key, raw := range out.Fields {
		value, ok := fieldText(raw)
		if !ok {
			continue
		}
		fields[key] = value
	}
	return fields, nil
}

// fieldText renders a JSON field value as text. Strings and numbers are
// accepted; anything else counts as absent.
func fieldText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if _, err := strconv.ParseFloat(n.String(), 64); err == nil {
			return n.String(), true
		}
	}
	return "", false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
