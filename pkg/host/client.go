package host

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

	log "github.com/sirupsen/logrus"
)

// Client talks to a dashboard host over its HTTP API. It implements both
// EventReader and ServiceCaller so an embedded card needs nothing else.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

func (c *Client) Events(ctx context.Context, calendarId string, from, to time.Time) ([]WireEvent, error) {
	u := fmt.Sprintf("%s/api/calendar/%s/events?from=%s&to=%s",
		c.baseURL,
		url.PathEscape(calendarId),
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build events request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("events request for %s returned %d: %s", calendarId, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var events []WireEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode events response: %w", err)
	}
	return events, nil
}

func (c *Client) CallService(ctx context.Context, domain, service string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal service payload: %w", err)
	}

	u := fmt.Sprintf("%s/api/services/%s/%s", c.baseURL, url.PathEscape(domain), url.PathEscape(service))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build service request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debugf("calling host service %s.%s", domain, service)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("service call %s.%s failed: %w", domain, service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s.%s: %w", domain, service, ErrUnknownService)
	}
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("service call %s.%s returned %d: %s", domain, service, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
