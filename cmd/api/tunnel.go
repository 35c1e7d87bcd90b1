package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ngrokTunnelsResponse matches the /api/tunnels response from the ngrok local API.
type ngrokTunnelsResponse struct {
	Tunnels []ngrokTunnel `json:"tunnels"`
}

type ngrokTunnel struct {
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

type tunnelProbe struct {
	client   *http.Client
	attempts int
	interval time.Duration
}

func newTunnelProbe() tunnelProbe {
	return tunnelProbe{
		client:   &http.Client{Timeout: 5 * time.Second},
		attempts: 10,
		interval: 3 * time.Second,
	}
}

// detectPublicURL queries the ngrok local API and returns the first HTTPS tunnel URL.
// The service binds to loopback, so this is the address GitHub has to be pointed at.
func (p tunnelProbe) detectPublicURL(ctx context.Context, ngrokAPIBase string) (string, error) {
	url := strings.TrimRight(ngrokAPIBase, "/") + "/api/tunnels"

	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		publicURL, err := p.fetch(ctx, url)
		if err == nil && publicURL != "" {
			return publicURL, nil
		}
		lastErr = err

		if attempt < p.attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(p.interval):
			}
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("ngrok API not usable after %d attempts: %w", p.attempts, lastErr)
	}
	return "", fmt.Errorf("ngrok has no active tunnels after %d attempts", p.attempts)
}

func (p tunnelProbe) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create ngrok API request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ngrok API returned %d", resp.StatusCode)
	}

	var tunnels ngrokTunnelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tunnels); err != nil {
		return "", fmt.Errorf("failed to decode ngrok API response: %w", err)
	}

	// Prefer HTTPS tunnels
	for _, t := range tunnels.Tunnels {
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
	}
	if len(tunnels.Tunnels) > 0 {
		return tunnels.Tunnels[0].PublicURL, nil
	}

	// ngrok is still starting up
	return "", nil
}
