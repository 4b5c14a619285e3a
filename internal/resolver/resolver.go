// Package resolver calls the external metadata-resolution service that
// maps a video URL and user-supplied title to the canonical channel
// name.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrLookupFailed marks any resolver failure: transport errors,
// timeouts, non-2xx responses, or undecodable bodies. Callers treat all
// of these identically and may retry later.
var ErrLookupFailed = errors.New("video metadata lookup failed")

// ChannelResolver resolves the channel name for a video.
type ChannelResolver interface {
	Resolve(ctx context.Context, videoURL, title string) (string, error)
}

// Client is an HTTP implementation of ChannelResolver.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a resolver client. The timeout bounds the whole
// call; on expiry the lookup fails like any other resolver error.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Wire types follow the external service contract, not the internal
// JSON conventions.
type resolveRequest struct {
	VideoURL string `json:"videoUrl"`
	Title    string `json:"title"`
}

type resolveResponse struct {
	Channel string `json:"channel"`
}

// Resolve returns the channel name for the video. An empty channel is a
// valid response; the caller decides how to substitute it.
func (c *Client) Resolve(ctx context.Context, videoURL, title string) (string, error) {
	payload, err := json.Marshal(resolveRequest{VideoURL: videoURL, Title: title})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrLookupFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrLookupFailed, resp.StatusCode, body)
	}

	var out resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrLookupFailed, err)
	}

	return out.Channel, nil
}
