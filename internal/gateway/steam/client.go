// Package steam looks up player avatars against the Steam Web API.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nohumanman/desc-comp-toolkit/internal/model"
)

// DefaultBaseURL is the production Steam Web API endpoint.
const DefaultBaseURL = "https://api.steampowered.com"

// Client is an HTTP client for the Steam Web API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Steam API client
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type playerSummariesResponse struct {
	Response struct {
		Players []struct {
			AvatarFull string `json:"avatarfull"`
		} `json:"players"`
	} `json:"response"`
}

// AvatarURL fetches the full-size avatar URL for a steam id.
// Returns model.ErrPlayerNotFound when Steam knows no such player.
func (c *Client) AvatarURL(ctx context.Context, steamID string) (string, error) {
	endpoint := fmt.Sprintf(
		"%s/ISteamUser/GetPlayerSummaries/v0002/?key=%s&steamids=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(steamID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("steam request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("steam returned status %d", resp.StatusCode)
	}

	var summaries playerSummariesResponse
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return "", fmt.Errorf("failed to decode steam response: %w", err)
	}

	if len(summaries.Response.Players) == 0 {
		return "", model.ErrPlayerNotFound
	}
	return summaries.Response.Players[0].AvatarFull, nil
}
