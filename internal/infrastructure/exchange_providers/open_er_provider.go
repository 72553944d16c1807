// internal/infrastructure/exchange_providers/open_er_provider.go
package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultOpenERBaseURL = "https://open.er-api.com/v6/latest"

// OpenERProvider reads rates from an open.er-api.com compatible endpoint:
// GET {baseURL}/{BASE} -> {"result":"success","base_code":"BRL","rates":{...}}
type OpenERProvider struct {
	client  *http.Client
	baseURL string
}

type openERResponse struct {
	Result    string             `json:"result"`
	BaseCode  string             `json:"base_code"`
	ErrorType string             `json:"error-type"`
	Rates     map[string]float64 `json:"rates"`
}

func NewOpenERProvider(baseURL string, client *http.Client) *OpenERProvider {
	if baseURL == "" {
		baseURL = DefaultOpenERBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &OpenERProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *OpenERProvider) GetName() string {
	return "open-er"
}

func (p *OpenERProvider) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s", p.baseURL, strings.ToUpper(base))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed openERResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse rates response: %w", err)
	}
	if parsed.Result != "success" {
		return nil, fmt.Errorf("rates API error: %s", parsed.ErrorType)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("rates API returned no rates for %s", base)
	}

	return parsed.Rates, nil
}
