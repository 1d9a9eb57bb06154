package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nohumanman/desc-comp-toolkit/internal/model"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	bestRuns   map[runKey]model.TimeSubmission
	aliases    map[string]string
	profiles   map[string]profile
	bans       map[string]model.BanStatus
	maxSpeeds  map[string]float64
	startBikes map[string]string
	ips        map[string][]ipRecord
	sessions   map[string][]sessionRecord
	medals     map[runKey]model.Medals
}

type runKey struct {
	trail   string
	steamID string
}

type profile struct {
	name   string
	avatar string
}

type ipRecord struct {
	host string
	port int
}

type sessionRecord struct {
	start time.Time
	end   time.Time
	world string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		bestRuns:   make(map[runKey]model.TimeSubmission),
		aliases:    make(map[string]string),
		profiles:   make(map[string]profile),
		bans:       make(map[string]model.BanStatus),
		maxSpeeds:  make(map[string]float64),
		startBikes: make(map[string]string),
		ips:        make(map[string][]ipRecord),
		sessions:   make(map[string][]sessionRecord),
		medals:     make(map[runKey]model.Medals),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

// Leaderboard operations

func (s *Storage) GetLeaderboard(ctx context.Context, trail string, limit int) ([]model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var runs []model.TimeSubmission
	for key, run := range s.bestRuns {
		if key.trail == trail {
			runs = append(runs, run)
		}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Time < runs[j].Time })

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	entries := make([]model.LeaderboardEntry, 0, len(runs))
	for i, run := range runs {
		name := s.aliases[run.SteamID]
		if name == "" {
			name = run.SteamID
		}
		entries = append(entries, model.LeaderboardEntry{
			Place:    i + 1,
			Time:     run.Time,
			Name:     name,
			Penalty:  0,
			Bike:     run.Bike,
			Verified: "1",
		})
	}
	return entries, nil
}

func (s *Storage) SubmitTime(ctx context.Context, sub model.TimeSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := runKey{trail: sub.Trail, steamID: sub.SteamID}
	if best, ok := s.bestRuns[key]; ok && best.Time <= sub.Time {
		return nil
	}
	s.bestRuns[key] = sub
	return nil
}

// Identity operations

func (s *Storage) SubmitAlias(ctx context.Context, steamID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[steamID] = name
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, steamID, name, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[steamID] = profile{name: name, avatar: avatar}
	return nil
}

func (s *Storage) GetAvatar(ctx context.Context, steamID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[steamID]
	if !ok {
		return "", model.ErrPlayerNotFound
	}
	return p.avatar, nil
}

func (s *Storage) SubmitIP(ctx context.Context, steamID, host string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ips[steamID] = append(s.ips[steamID], ipRecord{host: host, port: port})
	return nil
}

// Moderation operations

func (s *Storage) GetBanStatus(ctx context.Context, steamID string) (model.BanStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.bans[steamID]
	if !ok {
		return model.BanNone, nil
	}
	return status, nil
}

func (s *Storage) SetBanStatus(ctx context.Context, steamID string, status model.BanStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans[steamID] = status
	return nil
}

// Trail and world configuration

func (s *Storage) MaxStartSpeed(ctx context.Context, trail string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	speed, ok := s.maxSpeeds[trail]
	if !ok {
		return 0, model.ErrTrailNotFound
	}
	return speed, nil
}

func (s *Storage) SetMaxStartSpeed(ctx context.Context, trail string, speed float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxSpeeds[trail] = speed
	return nil
}

func (s *Storage) StartBike(ctx context.Context, world string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bike, ok := s.startBikes[world]
	if !ok {
		return "", model.ErrWorldNotFound
	}
	return bike, nil
}

func (s *Storage) SetStartBike(ctx context.Context, world, bike string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startBikes[world] = bike
	return nil
}

// Session history

func (s *Storage) EndSession(ctx context.Context, steamID string, start, end time.Time, world string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[steamID] = append(s.sessions[steamID], sessionRecord{start: start, end: end, world: world})
	return nil
}

func (s *Storage) TimeOnWorld(ctx context.Context, steamID, world string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, rec := range s.sessions[steamID] {
		if world != "" && rec.world != world {
			continue
		}
		total += rec.end.Sub(rec.start).Seconds()
	}
	return total, nil
}

// Medal operations

func (s *Storage) GetMedals(ctx context.Context, steamID, trail string) (model.Medals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.medals[runKey{trail: trail, steamID: steamID}], nil
}

func (s *Storage) SetMedals(ctx context.Context, steamID, trail string, medals model.Medals) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medals[runKey{trail: trail, steamID: steamID}] = medals
	return nil
}
