package meraki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/splashgate/splashgate/idp"
)

const (
	// DefaultBaseURL is the Meraki dashboard API root.
	DefaultBaseURL = "https://api.meraki.com/api/v1"

	apiKeyHeader = "X-Cisco-Meraki-API-Key"

	// clientRole is the fixed role every provisioned portal user gets.
	clientRole = "user"

	defaultTimeout = 5 * time.Second
)

// Client talks to the access controller's dashboard API. Provisioning is
// best-effort from the caller's point of view: errors are returned but the
// callback handler only logs them.
type Client struct {
	baseURL    string
	apiKey     string
	networkID  string
	httpClient *http.Client
}

func New(baseURL, apiKey, networkID string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		networkID:  networkID,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type provisionRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Provision registers the authenticated user as a client of the configured
// network so the controller lifts the captive-portal block. A single attempt
// is made; any non-2xx response is an error.
func (c *Client) Provision(ctx context.Context, identity idp.Identity) error {
	body, err := json.Marshal(provisionRequest{
		Email: identity.Email,
		Name:  identity.Name,
		Role:  clientRole,
	})
	if err != nil {
		return fmt.Errorf("[Meraki Provision] marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/networks/%s/clients", c.baseURL, c.networkID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("[Meraki Provision] build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[Meraki Provision] post client: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body) // drain for connection reuse

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("[Meraki Provision] unexpected status %s", resp.Status)
	}
	return nil
}

// Network is one entry from the organization network listing.
type Network struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Networks lists the organization's networks. Useful at setup time for
// finding the network ID the relay should be configured with.
func (c *Client) Networks(ctx context.Context, orgID string) ([]Network, error) {
	url := fmt.Sprintf("%s/organizations/%s/networks", c.baseURL, orgID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("[Meraki Networks] build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[Meraki Networks] get networks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[Meraki Networks] unexpected status %s", resp.Status)
	}

	var networks []Network
	if err := json.NewDecoder(resp.Body).Decode(&networks); err != nil {
		return nil, fmt.Errorf("[Meraki Networks] decode response: %w", err)
	}
	return networks, nil
}
