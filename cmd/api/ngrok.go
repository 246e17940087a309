package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	ngrokAttempts      = 10
	ngrokRetryInterval = 3 * time.Second
	ngrokTimeout       = 5 * time.Second
)

var errNoTunnel = errors.New("ngrok has no active tunnels")

// ngrokTunnelsResponse matches the /api/tunnels response from the ngrok local API.
type ngrokTunnelsResponse struct {
	Tunnels []struct {
		PublicURL string `json:"public_url"`
		Proto     string `json:"proto"`
	} `json:"tunnels"`
}

// detectNgrokURL polls the ngrok local API until it reports a tunnel,
// preferring HTTPS. ngrok usually starts after this service in compose.
func detectNgrokURL(ctx context.Context, apiBase string) (string, error) {
	client := &http.Client{Timeout: ngrokTimeout}

	var lastErr error
	for attempt := 1; attempt <= ngrokAttempts; attempt++ {
		publicURL, err := fetchTunnel(ctx, client, apiBase+"/api/tunnels")
		if err == nil {
			return publicURL, nil
		}
		lastErr = err

		if attempt == ngrokAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(ngrokRetryInterval):
		}
	}

	return "", fmt.Errorf("ngrok: giving up after %d attempts: %w", ngrokAttempts, lastErr)
}

func fetchTunnel(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create ngrok API request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var tunnels ngrokTunnelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tunnels); err != nil {
		return "", fmt.Errorf("failed to decode ngrok API response: %w", err)
	}

	for _, t := range tunnels.Tunnels {
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
	}
	if len(tunnels.Tunnels) > 0 {
		return tunnels.Tunnels[0].PublicURL, nil
	}
	return "", errNoTunnel
}
