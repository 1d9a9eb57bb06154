package response

import (
	"time"

	"github.com/nohumanman/desc-comp-toolkit/internal/model"
	"github.com/nohumanman/desc-comp-toolkit/internal/services/session"
)

// Player represents a connected player in API responses
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

// PlayerFromView converts a session.View to a response Player
func PlayerFromView(v session.View) Player {
	return Player{
		SessionID:   v.ID,
		SteamID:     v.SteamID,
		SteamName:   v.SteamName,
		Bike:        v.BikeType,
		World:       v.WorldName,
		Version:     v.Version,
		Reputation:  v.Reputation,
		ConnectedAt: v.ConnectedAt,
	}
}

// PlayerList is the response for the player listing endpoint
type PlayerList struct {
	Count   int      `json:"count"`
	Players []Player `json:"players"`
}

// PlayerListFromViews converts session views to a PlayerList
func PlayerListFromViews(views []session.View) PlayerList {
	players := make([]Player, len(views))
	for i, v := range views {
		players[i] = PlayerFromView(v)
	}
	return PlayerList{Count: len(players), Players: players}
}

// LeaderboardEntry represents one leaderboard row
type LeaderboardEntry struct {
	Place    int     `json:"place"`
	Time     float64 `json:"time"`
	Name     string  `json:"name"`
	Penalty  float64 `json:"penalty"`
	Bike     string  `json:"bike"`
	Verified string  `json:"verified"`
}

// Leaderboard is the response for leaderboard endpoints
type Leaderboard struct {
	Trail   string             `json:"trail"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts model entries to a response Leaderboard
func LeaderboardFromModel(trail string, entries []model.LeaderboardEntry) Leaderboard {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			Place:    e.Place,
			Time:     e.Time,
			Name:     e.Name,
			Penalty:  e.Penalty,
			Bike:     e.Bike,
			Verified: e.Verified,
		}
	}
	return Leaderboard{Trail: trail, Entries: out}
}

// Kicked is the response for the kick endpoint
type Kicked struct {
	SteamID string `json:"steam_id"`
	Kicked  int    `json:"kicked"`
}
