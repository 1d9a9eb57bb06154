package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/nohumanman/desc-comp-toolkit/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) submit(steamID, trail string, t float64, bike string) {
	err := s.storage.SubmitTime(s.ctx, model.TimeSubmission{
		SteamID: steamID,
		Trail:   trail,
		Time:    t,
		Bike:    bike,
	})
	s.Require().NoError(err)
}

// Leaderboard tests

func (s *StorageSuite) TestLeaderboardOrderedByTime() {
	s.submit("id-1", "canyon-run", 45.2, "enduro")
	s.submit("id-2", "canyon-run", 41.9, "downhill")
	s.Require().NoError(s.storage.SubmitAlias(s.ctx, "id-1", "Alice"))
	s.Require().NoError(s.storage.SubmitAlias(s.ctx, "id-2", "Bob"))

	entries, err := s.storage.GetLeaderboard(s.ctx, "canyon-run", 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(1, entries[0].Place)
	s.Equal("Bob", entries[0].Name)
	s.Equal(41.9, entries[0].Time)
	s.Equal("downhill", entries[0].Bike)
	s.Equal(2, entries[1].Place)
	s.Equal("Alice", entries[1].Name)
}

func (s *StorageSuite) TestLeaderboardKeepsBestTimePerPlayer() {
	s.submit("id-1", "canyon-run", 45.2, "enduro")
	s.submit("id-1", "canyon-run", 50.0, "enduro")
	s.submit("id-1", "canyon-run", 40.0, "hardtail")

	entries, err := s.storage.GetLeaderboard(s.ctx, "canyon-run", 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(40.0, entries[0].Time)
	s.Equal("hardtail", entries[0].Bike)
}

func (s *StorageSuite) TestLeaderboardRespectsLimit() {
	s.submit("id-1", "canyon-run", 45.2, "enduro")
	s.submit("id-2", "canyon-run", 41.9, "enduro")
	s.submit("id-3", "canyon-run", 44.0, "enduro")

	entries, err := s.storage.GetLeaderboard(s.ctx, "canyon-run", 2)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *StorageSuite) TestLeaderboardEmptyTrail() {
	entries, err := s.storage.GetLeaderboard(s.ctx, "nowhere", 10)
	s.Require().NoError(err)
	s.Empty(entries)
}

// Configuration tests

func (s *StorageSuite) TestMaxStartSpeed() {
	_, err := s.storage.MaxStartSpeed(s.ctx, "canyon-run")
	s.ErrorIs(err, model.ErrTrailNotFound)

	s.Require().NoError(s.storage.SetMaxStartSpeed(s.ctx, "canyon-run", 50.0))

	speed, err := s.storage.MaxStartSpeed(s.ctx, "canyon-run")
	s.Require().NoError(err)
	s.Equal(50.0, speed)
}

func (s *StorageSuite) TestStartBike() {
	_, err := s.storage.StartBike(s.ctx, "canyon")
	s.ErrorIs(err, model.ErrWorldNotFound)

	s.Require().NoError(s.storage.SetStartBike(s.ctx, "canyon", "downhill"))

	bike, err := s.storage.StartBike(s.ctx, "canyon")
	s.Require().NoError(err)
	s.Equal("downhill", bike)
}

// Moderation tests

func (s *StorageSuite) TestBanStatusDefaultsToNone() {
	status, err := s.storage.GetBanStatus(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(model.BanNone, status)
}

func (s *StorageSuite) TestSetAndGetBanStatus() {
	s.Require().NoError(s.storage.SetBanStatus(s.ctx, "id-1", model.BanIllegal))

	status, err := s.storage.GetBanStatus(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(model.BanIllegal, status)
}

// Identity tests

func (s *StorageSuite) TestAvatarRequiresProfile() {
	_, err := s.storage.GetAvatar(s.ctx, "id-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	s.Require().NoError(s.storage.UpdatePlayer(s.ctx, "id-1", "Alice", "https://example.com/a.jpg"))

	avatar, err := s.storage.GetAvatar(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal("https://example.com/a.jpg", avatar)
}

func (s *StorageSuite) TestSubmitIP() {
	s.Require().NoError(s.storage.SubmitIP(s.ctx, "id-1", "203.0.113.9", 41234))

	addrs, err := s.storage.client.LRange(s.ctx, ipsKey("id-1"), 0, -1).Result()
	s.Require().NoError(err)
	s.Equal([]string{"203.0.113.9:41234"}, addrs)
}

// Session history tests

func (s *StorageSuite) TestTimeOnWorldSumsSessions() {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.EndSession(s.ctx, "id-1", base, base.Add(90*time.Second), "canyon"))
	s.Require().NoError(s.storage.EndSession(s.ctx, "id-1", base, base.Add(30*time.Second), "desert"))

	total, err := s.storage.TimeOnWorld(s.ctx, "id-1", "")
	s.Require().NoError(err)
	s.Equal(120.0, total)

	onCanyon, err := s.storage.TimeOnWorld(s.ctx, "id-1", "canyon")
	s.Require().NoError(err)
	s.Equal(90.0, onCanyon)
}

// Medal tests

func (s *StorageSuite) TestMedalsDefaultToZero() {
	medals, err := s.storage.GetMedals(s.ctx, "id-1", "canyon-run")
	s.Require().NoError(err)
	s.Equal(model.Medals{}, medals)
}

func (s *StorageSuite) TestSetAndGetMedals() {
	want := model.Medals{Rainbow: 40.0, Gold: 45.0, Silver: 50.0, Bronze: 60.0}
	s.Require().NoError(s.storage.SetMedals(s.ctx, "id-1", "canyon-run", want))

	medals, err := s.storage.GetMedals(s.ctx, "id-1", "canyon-run")
	s.Require().NoError(err)
	s.Equal(want, medals)
}
