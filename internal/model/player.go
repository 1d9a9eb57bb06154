package model

import "time"

// PlayerInfo holds the identity a client asserts over the wire.
// Fields arrive independently and asynchronously; empty string means
// "not yet supplied".
type PlayerInfo struct {
	SteamID     string
	SteamName   string
	AvatarSrc   string
	BikeType    string
	WorldName   string
	LastTrick   string
	Reputation  int
	Version     string
	TimeStarted time.Time
}

// NewPlayerInfo returns the state a freshly accepted connection starts in.
// Version defaults to OUTDATED until the client reports one.
func NewPlayerInfo(now time.Time) PlayerInfo {
	return PlayerInfo{
		Version:     "OUTDATED",
		TimeStarted: now,
	}
}

// OfflineSteamID is the sentinel id the game client sends when Steam is
// unreachable. Sessions with this id get the no-clip toggle.
const OfflineSteamID = "OFFLINE"

// DefaultBike is assigned on map enter when the world has no configured
// start bike.
const DefaultBike = "enduro"
