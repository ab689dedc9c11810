package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// CallerHeader carries the acting account id.
const CallerHeader = "X-USER-ID"

func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest sends body as JSON when non-nil. callerID, when set, is sent in
// the X-USER-ID header.
func (c *SDKClient) doRequest(ctx context.Context, method, path, callerID string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if callerID != "" {
		req.Header.Set(CallerHeader, callerID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON reads the body once, returning an *APIError unless the status
// is expectedStatus.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatusNoContent(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, bodyBytes)
	}
	return nil
}

// call is the common request/decode round trip.
func call[T any](ctx context.Context, c *SDKClient, method, path, callerID string, body any, expected int) (*T, error) {
	resp, err := c.doRequest(ctx, method, path, callerID, body)
	if err != nil {
		return nil, err
	}
	var out T
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, err
	}
	return &out, nil
}

func callNoContent(ctx context.Context, c *SDKClient, method, path, callerID string, body any) error {
	resp, err := c.doRequest(ctx, method, path, callerID, body)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
