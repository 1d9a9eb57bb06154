package model

import "time"

// LeaderboardEntry is one row of a trail leaderboard.
type LeaderboardEntry struct {
	Place    int     `json:"place"`
	Time     float64 `json:"time"`
	Name     string  `json:"name"`
	Penalty  float64 `json:"pen"`
	Bike     string  `json:"bike"`
	Verified string  `json:"verified"`
}

// TimeSubmission is a finished run queued for leaderboard consideration.
type TimeSubmission struct {
	SteamID     string    `json:"steam_id"`
	Trail       string    `json:"trail"`
	Time        float64   `json:"time"`
	Checkpoints int       `json:"checkpoints"`
	StartSpeed  float64   `json:"start_speed"`
	Bike        string    `json:"bike"`
	World       string    `json:"world"`
	Version     string    `json:"version"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Medals holds a player's best medal times on one trail. Zero means the
// medal has not been earned.
type Medals struct {
	Rainbow float64 `json:"rainbow"`
	Gold    float64 `json:"gold"`
	Silver  float64 `json:"silver"`
	Bronze  float64 `json:"bronze"`
}

// BanStatus is the stored moderation state for a steam id.
type BanStatus string

const (
	BanNone    BanStatus = "NONE"
	BanClose   BanStatus = "CLOSE"
	BanCrash   BanStatus = "CRASH"
	BanIllegal BanStatus = "ILLEGAL"
)

// ColumnLeaderboard reshapes rows into the column-oriented structure the
// game client consumes: one parallel array per field.
func ColumnLeaderboard(rows []LeaderboardEntry) map[string][]any {
	if len(rows) == 0 {
		return map[string][]any{}
	}
	cols := map[string][]any{
		"place":    make([]any, 0, len(rows)),
		"time":     make([]any, 0, len(rows)),
		"name":     make([]any, 0, len(rows)),
		"pen":      make([]any, 0, len(rows)),
		"bike":     make([]any, 0, len(rows)),
		"verified": make([]any, 0, len(rows)),
	}
	for _, row := range rows {
		cols["place"] = append(cols["place"], row.Place)
		cols["time"] = append(cols["time"], row.Time)
		cols["name"] = append(cols["name"], row.Name)
		cols["pen"] = append(cols["pen"], row.Penalty)
		cols["bike"] = append(cols["bike"], row.Bike)
		cols["verified"] = append(cols["verified"], row.Verified)
	}
	return cols
}
