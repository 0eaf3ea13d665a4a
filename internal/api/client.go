// Package api performs authenticated RPC-style calls against the bounty.new
// tRPC surface and normalizes result and error shapes for every downstream
// caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrMalformedResponse wraps bodies that cannot be decoded after a 2xx.
var ErrMalformedResponse = errors.New("malformed response from server")

// RemoteCallError reports a non-2xx response from the API.
type RemoteCallError struct {
	Status     int
	StatusText string
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.StatusText)
}

// AuthHeaderFunc supplies the auth headers for the current session. An empty
// map means the call goes out unauthenticated; the server decides
// authorization.
type AuthHeaderFunc func() map[string]string

// Client is the single gateway for remote calls. Queries are GET requests
// with the input JSON-serialized into the `input` query parameter; mutations
// are POST requests carrying the input as the body. The transport-level
// {"result":{"data":...}} envelope is stripped before callers see payloads.
type Client struct {
	baseURL    string
	http       *http.Client
	authHeader AuthHeaderFunc
}

// NewClient creates an API client rooted at baseURL
// (e.g. https://www.bounty.new/api/trpc).
func NewClient(baseURL string, authHeader AuthHeaderFunc) *Client {
	return &Client{
		baseURL:    baseURL,
		http:       &http.Client{Timeout: 30 * time.Second},
		authHeader: authHeader,
	}
}

// envelope is the transport wrapper around every tRPC payload.
type envelope struct {
	Result struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
}

// Call performs one remote call and decodes the unwrapped payload into out
// (out may be nil when the caller ignores the payload).
func (c *Client) Call(ctx context.Context, endpoint string, input interface{}, mutation bool, out interface{}) error {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("marshal input for %s: %w", endpoint, err)
	}

	var req *http.Request
	if mutation {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/"+endpoint, bytes.NewReader(inputJSON))
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/"+endpoint+"?input="+url.QueryEscape(string(inputJSON)), nil)
	}
	if err != nil {
		return fmt.Errorf("build request for %s: %w", endpoint, err)
	}

	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.authHeader() {
		req.Header.Set(k, v)
	}

	slog.Debug("api call", "endpoint", endpoint, "mutation", mutation)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		slog.Warn("api call failed", "endpoint", endpoint, "status", resp.StatusCode, "body", string(body))
		return &RemoteCallError{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}

	if out == nil || len(env.Result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result.Data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}
	return nil
}
