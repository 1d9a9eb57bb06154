// Package speedrun looks up trail leaderboards on speedrun.com.
package speedrun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nohumanman/desc-comp-toolkit/internal/model"
)

// Config identifies the game and category on speedrun.com
type Config struct {
	BaseURL    string
	GameName   string
	CategoryID string
}

// DefaultConfig points at the Descenders individual-level category
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://www.speedrun.com/api/v1",
		GameName:   "Descenders",
		CategoryID: "7dg4yg4d",
	}
}

// Client is an HTTP client for the speedrun.com REST API
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new speedrun.com client
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// emptyLeaderboard is the sentinel row returned when a trail has no
// external leaderboard; the game client expects a populated row rather
// than an empty set.
func emptyLeaderboard() []model.LeaderboardEntry {
	return []model.LeaderboardEntry{{
		Place:    1,
		Time:     0,
		Name:     "No times",
		Penalty:  0,
		Verified: "1",
	}}
}

type gameResponse struct {
	Data []struct {
		ID     string `json:"id"`
		Levels struct {
			Data []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"data"`
		} `json:"levels"`
	} `json:"data"`
}

type leaderboardResponse struct {
	Data struct {
		Runs []struct {
			Place int `json:"place"`
			Run   struct {
				Times struct {
					RealtimeT float64 `json:"realtime_t"`
				} `json:"times"`
			} `json:"run"`
		} `json:"runs"`
		Players struct {
			Data []struct {
				Names struct {
					International string `json:"international"`
				} `json:"names"`
				Name string `json:"name"`
			} `json:"data"`
		} `json:"players"`
	} `json:"data"`
}

// Leaderboard fetches the external leaderboard for a trail. A trail
// with no matching level yields the empty sentinel, not an error.
func (c *Client) Leaderboard(ctx context.Context, trail string) ([]model.LeaderboardEntry, error) {
	game, err := c.lookupGame(ctx)
	if err != nil {
		return nil, err
	}

	levelID := ""
	for _, level := range game.levels {
		if level.name == trail {
			levelID = level.id
			break
		}
	}
	if levelID == "" {
		return emptyLeaderboard(), nil
	}

	endpoint := fmt.Sprintf(
		"%s/leaderboards/%s/level/%s/%s?embed=players",
		c.cfg.BaseURL, game.id, levelID, c.cfg.CategoryID,
	)

	var board leaderboardResponse
	if err := c.get(ctx, endpoint, &board); err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(board.Data.Runs))
	for i, run := range board.Data.Runs {
		if run.Place == 0 {
			continue
		}
		name := "Unknown"
		if i < len(board.Data.Players.Data) {
			player := board.Data.Players.Data[i]
			if player.Names.International != "" {
				name = player.Names.International
			} else if player.Name != "" {
				name = player.Name
			}
		}
		entries = append(entries, model.LeaderboardEntry{
			Place:    run.Place,
			Time:     run.Run.Times.RealtimeT,
			Name:     name,
			Penalty:  0,
			Verified: "1",
		})
	}
	if len(entries) == 0 {
		return emptyLeaderboard(), nil
	}
	return entries, nil
}

type gameInfo struct {
	id     string
	levels []levelInfo
}

type levelInfo struct {
	id   string
	name string
}

func (c *Client) lookupGame(ctx context.Context) (gameInfo, error) {
	endpoint := fmt.Sprintf("%s/games?name=%s&embed=levels", c.cfg.BaseURL, url.QueryEscape(c.cfg.GameName))

	var games gameResponse
	if err := c.get(ctx, endpoint, &games); err != nil {
		return gameInfo{}, err
	}
	if len(games.Data) == 0 {
		return gameInfo{}, fmt.Errorf("game %q not found on speedrun.com", c.cfg.GameName)
	}

	game := gameInfo{id: games.Data[0].ID}
	for _, level := range games.Data[0].Levels.Data {
		game.levels = append(game.levels, levelInfo{id: level.ID, name: level.Name})
	}
	return game, nil
}

func (c *Client) get(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("speedrun.com request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speedrun.com returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode speedrun.com response: %w", err)
	}
	return nil
}
