package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
)

const (
	DefaultEchoURL   = "https://api.ipify.org?format=json"
	DefaultLookupURL = "https://ipapi.co"
)

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "voltz-checkout/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// IPifyClient asks an IP-echo endpoint for the caller's public address.
type IPifyClient struct {
	client *http.Client
	url    string
}

func NewIPifyClient(url string, client *http.Client) *IPifyClient {
	if url == "" {
		url = DefaultEchoURL
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &IPifyClient{client: client, url: url}
}

func (c *IPifyClient) OwnIP(ctx context.Context) (string, error) {
	var resp struct {
		IP string `json:"ip"`
	}
	if err := getJSON(ctx, c.client, c.url, &resp); err != nil {
		return "", err
	}
	if resp.IP == "" {
		return "", fmt.Errorf("ip echo returned empty address")
	}
	return resp.IP, nil
}

// IPAPIClient resolves an address with an ipapi.co compatible endpoint:
// GET {baseURL}/{ip}/json/
type IPAPIClient struct {
	client  *http.Client
	baseURL string
}

type ipapiResponse struct {
	IP          string `json:"ip"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Currency    string `json:"currency"`
	Languages   string `json:"languages"`
}

func NewIPAPIClient(baseURL string, client *http.Client) *IPAPIClient {
	if baseURL == "" {
		baseURL = DefaultLookupURL
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &IPAPIClient{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *IPAPIClient) Locate(ctx context.Context, ip string) (*domain.GeoLocation, error) {
	var resp ipapiResponse
	if err := getJSON(ctx, c.client, fmt.Sprintf("%s/%s/json/", c.baseURL, ip), &resp); err != nil {
		return nil, err
	}
	if resp.Error {
		return nil, fmt.Errorf("geolocation failed: %s", resp.Reason)
	}
	if resp.CountryCode == "" {
		return nil, fmt.Errorf("geolocation returned no country for %s", ip)
	}

	loc := &domain.GeoLocation{
		IP:          resp.IP,
		CountryCode: strings.ToUpper(resp.CountryCode),
		CountryName: resp.CountryName,
		Currency:    strings.ToUpper(resp.Currency),
	}
	if loc.IP == "" {
		loc.IP = ip
	}
	for _, l := range strings.Split(resp.Languages, ",") {
		if l = strings.TrimSpace(l); l != "" {
			loc.Languages = append(loc.Languages, l)
		}
	}
	return loc, nil
}
