package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nohumanman/desc-comp-toolkit/internal/model"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Leaderboard operations

func (s *Storage) GetLeaderboard(ctx context.Context, trail string, limit int) ([]model.LeaderboardEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	members, err := s.client.ZRangeWithScores(ctx, timesKey(trail), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(members))
	for i, member := range members {
		steamID, _ := member.Member.(string)

		name, err := s.client.Get(ctx, aliasKey(steamID)).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				return nil, err
			}
			name = steamID
		}

		entry := model.LeaderboardEntry{
			Place:    i + 1,
			Time:     member.Score,
			Name:     name,
			Penalty:  0,
			Verified: "1",
		}

		var sub model.TimeSubmission
		data, err := s.client.Get(ctx, runKey(trail, steamID)).Bytes()
		if err == nil {
			if err := json.Unmarshal(data, &sub); err == nil {
				entry.Bike = sub.Bike
			}
		} else if !errors.Is(err, redis.Nil) {
			return nil, err
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Storage) SubmitTime(ctx context.Context, sub model.TimeSubmission) error {
	best, err := s.client.ZScore(ctx, timesKey(sub.Trail), sub.SteamID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if err == nil && best <= sub.Time {
		return nil
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, timesKey(sub.Trail), redis.Z{Score: sub.Time, Member: sub.SteamID})
	pipe.Set(ctx, runKey(sub.Trail, sub.SteamID), data, 0)
	_, err = pipe.Exec(ctx)
	return err
}

// Identity operations

func (s *Storage) SubmitAlias(ctx context.Context, steamID, name string) error {
	return s.client.Set(ctx, aliasKey(steamID), name, 0).Err()
}

func (s *Storage) UpdatePlayer(ctx context.Context, steamID, name, avatar string) error {
	data, err := json.Marshal(map[string]string{"name": name, "avatar": avatar})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, profileKey(steamID), data, 0).Err()
}

func (s *Storage) GetAvatar(ctx context.Context, steamID string) (string, error) {
	data, err := s.client.Get(ctx, profileKey(steamID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrPlayerNotFound
		}
		return "", err
	}

	var profile map[string]string
	if err := json.Unmarshal(data, &profile); err != nil {
		return "", err
	}
	return profile["avatar"], nil
}

func (s *Storage) SubmitIP(ctx context.Context, steamID, host string, port int) error {
	return s.client.RPush(ctx, ipsKey(steamID), fmt.Sprintf("%s:%d", host, port)).Err()
}

// Moderation operations

func (s *Storage) GetBanStatus(ctx context.Context, steamID string) (model.BanStatus, error) {
	status, err := s.client.Get(ctx, banKey(steamID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.BanNone, nil
		}
		return model.BanNone, err
	}
	return model.BanStatus(status), nil
}

func (s *Storage) SetBanStatus(ctx context.Context, steamID string, status model.BanStatus) error {
	return s.client.Set(ctx, banKey(steamID), string(status), 0).Err()
}

// Trail and world configuration

func (s *Storage) MaxStartSpeed(ctx context.Context, trail string) (float64, error) {
	raw, err := s.client.Get(ctx, trailSpeedKey(trail)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, model.ErrTrailNotFound
		}
		return 0, err
	}
	return strconv.ParseFloat(raw, 64)
}

func (s *Storage) SetMaxStartSpeed(ctx context.Context, trail string, speed float64) error {
	return s.client.Set(ctx, trailSpeedKey(trail), strconv.FormatFloat(speed, 'f', -1, 64), 0).Err()
}

func (s *Storage) StartBike(ctx context.Context, world string) (string, error) {
	bike, err := s.client.Get(ctx, worldBikeKey(world)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrWorldNotFound
		}
		return "", err
	}
	return bike, nil
}

func (s *Storage) SetStartBike(ctx context.Context, world, bike string) error {
	return s.client.Set(ctx, worldBikeKey(world), bike, 0).Err()
}

// Session history

type sessionRecord struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	World string    `json:"world"`
}

func (s *Storage) EndSession(ctx context.Context, steamID string, start, end time.Time, world string) error {
	data, err := json.Marshal(sessionRecord{Start: start, End: end, World: world})
	if err != nil {
		return err
	}

	key := sessionsKey(steamID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return err
	}
	if s.cfg.SessionHistoryTTL > 0 {
		return s.client.Expire(ctx, key, s.cfg.SessionHistoryTTL).Err()
	}
	return nil
}

func (s *Storage) TimeOnWorld(ctx context.Context, steamID, world string) (float64, error) {
	raw, err := s.client.LRange(ctx, sessionsKey(steamID), 0, -1).Result()
	if err != nil {
		return 0, err
	}

	var total float64
	for _, item := range raw {
		var rec sessionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		if world != "" && rec.World != world {
			continue
		}
		total += rec.End.Sub(rec.Start).Seconds()
	}
	return total, nil
}

// Medal operations

func (s *Storage) GetMedals(ctx context.Context, steamID, trail string) (model.Medals, error) {
	data, err := s.client.Get(ctx, medalsKey(steamID, trail)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Medals{}, nil
		}
		return model.Medals{}, err
	}

	var medals model.Medals
	if err := json.Unmarshal(data, &medals); err != nil {
		return model.Medals{}, err
	}
	return medals, nil
}

func (s *Storage) SetMedals(ctx context.Context, steamID, trail string, medals model.Medals) error {
	data, err := json.Marshal(medals)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, medalsKey(steamID, trail), data, 0).Err()
}
