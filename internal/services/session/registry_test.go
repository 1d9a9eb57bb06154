package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nohumanman/desc-comp-toolkit/internal/dependencies/mocks"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage/memory"
	"github.com/nohumanman/desc-comp-toolkit/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
	clock    *mocks.MockClock
	deps     Deps
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.deps = Deps{
		Store:    memory.New(),
		Registry: s.registry,
		Presence: &recordingPresence{},
		Avatars:  &fakeAvatars{},
		External: &fakeExternal{},
		Logs:     &recordingSink{},
		Clock:    s.clock,
		Logger:   testutil.NopLogger(),
	}
}

func (s *RegistrySuite) session(steamID string) *Session {
	sess := New(newFakeConn(""), s.deps)
	s.registry.Add(sess)
	if steamID != "" {
		sess.Handle(context.Background(), []string{"STEAM_ID", steamID})
	}
	return sess
}

func (s *RegistrySuite) TestAddRemoveCount() {
	a := s.session("")
	b := s.session("")
	s.Equal(2, s.registry.Count())

	s.registry.Remove(a.ID())
	s.Equal(1, s.registry.Count())
	s.False(s.registry.Contains(a.ID()))
	s.True(s.registry.Contains(b.ID()))

	// Removing an unknown id is a no-op.
	s.registry.Remove("nope")
	s.Equal(1, s.registry.Count())
}

func (s *RegistrySuite) TestSnapshotIsDetached() {
	a := s.session("")
	snap := s.registry.Snapshot()
	s.Len(snap, 1)

	s.registry.Remove(a.ID())
	s.Len(snap, 1, "snapshot keeps its contents after removal")
	s.Equal(0, s.registry.Count())
}

func (s *RegistrySuite) TestEvictDuplicatesRemovesOnlySameSteamID() {
	older := s.session("id-1")
	other := s.session("id-2")
	newer := s.session("id-1")

	evicted := s.registry.EvictDuplicates(newer)

	s.Require().Len(evicted, 1)
	s.Equal(older.ID(), evicted[0].ID())
	s.False(s.registry.Contains(older.ID()))
	s.True(s.registry.Contains(other.ID()))
	s.True(s.registry.Contains(newer.ID()))
}

func (s *RegistrySuite) TestViewsSnapshotIdentity() {
	s.session("id-1")
	s.session("id-2")

	views := s.registry.Views()
	s.Require().Len(views, 2)
	ids := []string{views[0].SteamID, views[1].SteamID}
	s.ElementsMatch([]string{"id-1", "id-2"}, ids)
}

func (s *RegistrySuite) TestKickClosesAndUnregisters() {
	target := s.session("id-1")
	bystander := s.session("id-2")

	s.Equal(1, s.registry.Kick("id-1"))
	s.False(s.registry.Contains(target.ID()))
	s.True(s.registry.Contains(bystander.ID()))
	s.Equal(0, s.registry.Kick("id-1"))
}

func (s *RegistrySuite) TestEvictDuplicatesIgnoresUnauthenticated() {
	anonA := s.session("")
	anonB := s.session("")

	s.Empty(s.registry.EvictDuplicates(anonB))
	s.True(s.registry.Contains(anonA.ID()))
}
