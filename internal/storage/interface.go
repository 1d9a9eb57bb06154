package storage

import (
	"context"
	"time"

	"github.com/nohumanman/desc-comp-toolkit/internal/model"
)

// Store defines the interface for the competition database gateway.
type Store interface {
	// Leaderboard operations
	GetLeaderboard(ctx context.Context, trail string, limit int) ([]model.LeaderboardEntry, error)
	SubmitTime(ctx context.Context, sub model.TimeSubmission) error

	// Identity operations
	SubmitAlias(ctx context.Context, steamID, name string) error
	UpdatePlayer(ctx context.Context, steamID, name, avatar string) error
	GetAvatar(ctx context.Context, steamID string) (string, error)
	SubmitIP(ctx context.Context, steamID, host string, port int) error

	// Moderation operations
	GetBanStatus(ctx context.Context, steamID string) (model.BanStatus, error)
	SetBanStatus(ctx context.Context, steamID string, status model.BanStatus) error

	// Trail and world configuration
	MaxStartSpeed(ctx context.Context, trail string) (float64, error)
	SetMaxStartSpeed(ctx context.Context, trail string, speed float64) error
	StartBike(ctx context.Context, world string) (string, error)
	SetStartBike(ctx context.Context, world, bike string) error

	// Session history
	EndSession(ctx context.Context, steamID string, start, end time.Time, world string) error
	TimeOnWorld(ctx context.Context, steamID, world string) (float64, error)

	// Medal operations
	GetMedals(ctx context.Context, steamID, trail string) (model.Medals, error)
	SetMedals(ctx context.Context, steamID, trail string, medals model.Medals) error
}
