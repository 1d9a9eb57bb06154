package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nohumanman/desc-comp-toolkit/internal/dependencies/clock"
	"github.com/nohumanman/desc-comp-toolkit/internal/logsink"
	"github.com/nohumanman/desc-comp-toolkit/internal/model"
	"github.com/nohumanman/desc-comp-toolkit/internal/presence"
	"github.com/nohumanman/desc-comp-toolkit/internal/services/session"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage/memory"
	"github.com/nohumanman/desc-comp-toolkit/internal/testutil"
)

type stubAvatars struct{}

func (stubAvatars) AvatarURL(context.Context, string) (string, error) {
	return "", model.ErrPlayerNotFound
}

type stubExternal struct{}

func (stubExternal) Leaderboard(context.Context, string) ([]model.LeaderboardEntry, error) {
	return nil, nil
}

type ServerSuite struct {
	suite.Suite
	server   *Server
	storage  *memory.Storage
	registry *session.Registry
	addr     string
	cancel   context.CancelFunc
	done     chan struct{}
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.storage = memory.New()
	s.registry = session.NewRegistry()

	sink, err := logsink.New(s.T().TempDir(), clock.New())
	s.Require().NoError(err)

	deps := session.Deps{
		Store:    s.storage,
		Registry: s.registry,
		Presence: presence.NewNoop(),
		Avatars:  stubAvatars{},
		External: stubExternal{},
		Logs:     sink,
		Clock:    clock.New(),
		Logger:   testutil.NopLogger(),
	}
	s.server = New(DefaultConfig(), deps, testutil.NopLogger())

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	s.addr = listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		_ = s.server.Serve(ctx, listener)
	}()
}

func (s *ServerSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.server.Shutdown(ctx))
	s.cancel()
	<-s.done
}

func (s *ServerSuite) dial() (net.Conn, *bufio.Reader) {
	conn, err := net.Dial("tcp", s.addr)
	s.Require().NoError(err)
	s.Require().NoError(conn.SetDeadline(time.Now().Add(5 * time.Second)))
	return conn, bufio.NewReader(conn)
}

func (s *ServerSuite) readLine(rd *bufio.Reader) string {
	line, err := rd.ReadString('\n')
	s.Require().NoError(err)
	return line
}

func (s *ServerSuite) awaitSessions(n int) {
	s.Require().Eventually(func() bool {
		return s.registry.Count() == n
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *ServerSuite) TestConnectionGreetedAndRegistered() {
	conn, rd := s.dial()
	defer conn.Close()

	s.Equal("SUCCESS\n", s.readLine(rd))
	s.awaitSessions(1)
}

func (s *ServerSuite) TestRunSubmittedOverTheWire() {
	conn, rd := s.dial()
	defer conn.Close()
	s.readLine(rd)

	fmt.Fprint(conn, "STEAM_ID|id-1\n")
	fmt.Fprint(conn, "STEAM_NAME|Alice\n")
	fmt.Fprint(conn, "CHECKPOINT_ENTER|Start|canyon-run|2|0.0\n")
	fmt.Fprint(conn, "CHECKPOINT_ENTER|Finish|canyon-run|2|41.9\n")

	s.Require().Eventually(func() bool {
		entries, err := s.storage.GetLeaderboard(context.Background(), "canyon-run", 10)
		return err == nil && len(entries) == 1
	}, 2*time.Second, 10*time.Millisecond)

	entries, err := s.storage.GetLeaderboard(context.Background(), "canyon-run", 10)
	s.Require().NoError(err)
	s.Equal(41.9, entries[0].Time)
	s.Equal("Alice", entries[0].Name)
}

func (s *ServerSuite) TestDisconnectDeregisters() {
	conn, rd := s.dial()
	s.readLine(rd)
	s.awaitSessions(1)

	conn.Close()
	s.awaitSessions(0)
}

func (s *ServerSuite) TestChatReachesOtherClient() {
	a, aRd := s.dial()
	defer a.Close()
	s.readLine(aRd)
	fmt.Fprint(a, "STEAM_ID|id-1\nSTEAM_NAME|Alice\n")

	b, bRd := s.dial()
	defer b.Close()
	s.readLine(bRd)
	fmt.Fprint(b, "STEAM_ID|id-2\nSTEAM_NAME|Bob\n")
	s.awaitSessions(2)

	fmt.Fprint(a, "CHAT_MESSAGE|hello\n")
	s.Equal("CHAT_MESSAGE|Alice||hello\n", s.readLine(bRd))
}

func (s *ServerSuite) TestShutdownClosesLiveSessions() {
	conn, rd := s.dial()
	defer conn.Close()
	s.readLine(rd)
	s.awaitSessions(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.server.Shutdown(ctx))

	// The client sees EOF once its session is torn down.
	_, err := rd.ReadString('\n')
	s.Error(err)
}
