package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case KickResult:
		o.printKickResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	SessionID   string    `json:"session_id"`
	SteamID     string    `json:"steam_id"`
	SteamName   string    `json:"steam_name"`
	Bike        string    `json:"bike"`
	World       string    `json:"world"`
	Version     string    `json:"version"`
	Reputation  int       `json:"reputation"`
	ConnectedAt time.Time `json:"connected_at"`
}

// PlayerList response type
type PlayerList struct {
	Count   int      `json:"count"`
	Players []Player `json:"players"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Place    int     `json:"place"`
	Time     float64 `json:"time"`
	Name     string  `json:"name"`
	Penalty  float64 `json:"penalty"`
	Bike     string  `json:"bike"`
	Verified string  `json:"verified"`
}

// Leaderboard response type
type Leaderboard struct {
	Trail   string             `json:"trail"`
	Entries []LeaderboardEntry `json:"entries"`
}

// KickResult response type
type KickResult struct {
	SteamID string `json:"steam_id"`
	Kicked  int    `json:"kicked"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.SteamName, p.SteamID)
	if p.World != "" {
		fmt.Printf("World: %s\n", p.World)
	}
	if p.Bike != "" {
		fmt.Printf("Bike: %s\n", p.Bike)
	}
	fmt.Printf("Version: %s\n", p.Version)
	fmt.Printf("Reputation: %d\n", p.Reputation)
	fmt.Printf("Connected: %s\n", p.ConnectedAt.Format(time.RFC3339))
}

func (o *Output) printPlayerList(l PlayerList) {
	fmt.Printf("Connected players (%d):\n", l.Count)
	for _, p := range l.Players {
		world := p.World
		if world == "" {
			world = "-"
		}
		name := p.SteamName
		if name == "" {
			name = "(unidentified)"
		}
		fmt.Printf("  - %s (%s) on %s\n", name, p.SteamID, world)
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("Leaderboard: %s\n", l.Trail)
	for _, e := range l.Entries {
		fmt.Printf("  %2d. %-24s %8.3fs (%s)\n", e.Place, e.Name, e.Time, e.Bike)
	}
}

func (o *Output) printKickResult(k KickResult) {
	fmt.Printf("Kicked %d session(s) for %s\n", k.Kicked, k.SteamID)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
