// Package session owns the per-connection protocol state machine: one
// Session per TCP connection, holding the player's identity and the
// trail timers for whatever they are currently riding.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nohumanman/desc-comp-toolkit/internal/dependencies/clock"
	"github.com/nohumanman/desc-comp-toolkit/internal/model"
	"github.com/nohumanman/desc-comp-toolkit/internal/presence"
	"github.com/nohumanman/desc-comp-toolkit/internal/protocol"
	"github.com/nohumanman/desc-comp-toolkit/internal/services/timer"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage"
)

// DefaultAuthGrace is how long an unauthenticated connection may live
// before it is force-closed.
const DefaultAuthGrace = 20 * time.Second

// AvatarSource resolves a steam id to an avatar URL.
type AvatarSource interface {
	AvatarURL(ctx context.Context, steamID string) (string, error)
}

// ExternalBoard looks up a trail leaderboard on a third-party ranking
// service.
type ExternalBoard interface {
	Leaderboard(ctx context.Context, trail string) ([]model.LeaderboardEntry, error)
}

// DiagnosticSink receives client LOG_LINE payloads.
type DiagnosticSink interface {
	Append(steamID string, fragments []string) error
}

// Deps bundles everything a Session needs beyond its connection.
type Deps struct {
	Store    storage.Store
	Registry *Registry
	Presence presence.Notifier
	Avatars  AvatarSource
	External ExternalBoard
	Logs     DiagnosticSink
	Clock    clock.Clock
	Logger   *slog.Logger

	// AuthGrace overrides DefaultAuthGrace when positive.
	AuthGrace time.Duration
}

// View is a read-only snapshot of a session, safe to hand to other
// goroutines (broadcast formatting, the ops API).
type View struct {
	ID          string    `json:"id"`
	SteamID     string    `json:"steam_id"`
	SteamName   string    `json:"steam_name"`
	BikeType    string    `json:"bike_type"`
	WorldName   string    `json:"world_name"`
	Version     string    `json:"version"`
	Reputation  int       `json:"reputation"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Session handles one game client connection.
type Session struct {
	id   string
	conn net.Conn
	rd   *protocol.Reader
	wr   *protocol.Writer
	deps Deps
	log  *slog.Logger

	connectedAt  time.Time
	authDeadline time.Time

	// mu guards info: written only by the session's own goroutine,
	// read by other sessions when formatting broadcasts.
	mu   sync.RWMutex
	info model.PlayerInfo

	// timers is touched only by the session's own goroutine.
	timers map[string]*timer.Timer

	closeOnce sync.Once
}

// New creates a Session for an accepted connection and greets the
// client. The caller is responsible for registering it and calling Run.
func New(conn net.Conn, deps Deps) *Session {
	if deps.AuthGrace <= 0 {
		deps.AuthGrace = DefaultAuthGrace
	}

	id := uuid.NewString()
	now := deps.Clock.Now()

	s := &Session{
		id:           id,
		conn:         conn,
		rd:           protocol.NewReader(conn),
		wr:           protocol.NewWriter(conn),
		deps:         deps,
		log:          deps.Logger.With(slog.String("session_id", id), slog.String("remote", conn.RemoteAddr().String())),
		connectedAt:  now,
		authDeadline: now.Add(deps.AuthGrace),
		info:         model.NewPlayerInfo(now),
		timers:       make(map[string]*timer.Timer),
	}

	s.log.Info("session created")
	s.Send("SUCCESS")
	return s
}

// ID returns the session's unique id
func (s *Session) ID() string { return s.id }

// SteamID returns the bound steam id, or "" before identity binding
func (s *Session) SteamID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info.SteamID
}

// Snapshot returns a copy of the session's identity state
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		ID:          s.id,
		SteamID:     s.info.SteamID,
		SteamName:   s.info.SteamName,
		BikeType:    s.info.BikeType,
		WorldName:   s.info.WorldName,
		Version:     s.info.Version,
		Reputation:  s.info.Reputation,
		ConnectedAt: s.connectedAt,
	}
}

// Send writes one line to this session's client
func (s *Session) Send(fields ...string) {
	s.wr.Send(fields...)
}

// SetTextColour asks the client to recolour its chat text
func (s *Session) SetTextColour(r, g, b int) {
	s.Send("SET_TEXT_COLOUR", strconv.Itoa(r), strconv.Itoa(g), strconv.Itoa(b))
}

// SetTextDefault resets the client's chat text colour
func (s *Session) SetTextDefault() {
	s.Send("SET_TEXT_COL_DEFAULT")
}

// Close tears the connection down. Idempotent; the read loop unwinds on
// the resulting read error and runs teardown.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}

// Run reads and dispatches commands until the connection dies or the
// unauthenticated grace period lapses. Commands from one connection are
// handled strictly in arrival order.
func (s *Session) Run(ctx context.Context) {
	defer s.teardown()

	for {
		unauthenticated := s.SteamID() == ""

		// Deadline check against the injected clock so the grace
		// behavior is testable without real socket timing.
		if unauthenticated && !s.deps.Clock.Now().Before(s.authDeadline) {
			s.log.Info("no steam id within grace period, closing")
			return
		}

		// The socket deadline guarantees the loop wakes up to
		// enforce the grace period even if the client stays silent.
		if unauthenticated {
			_ = s.conn.SetReadDeadline(s.authDeadline)
		} else {
			_ = s.conn.SetReadDeadline(time.Time{})
		}

		tokens, err := s.rd.Next()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) && s.SteamID() == "" {
				s.log.Info("no steam id within grace period, closing")
			} else {
				s.log.Debug("read loop ended", slog.String("error", err.Error()))
			}
			return
		}

		s.Handle(ctx, tokens)
	}
}

func (s *Session) teardown() {
	s.deps.Registry.Remove(s.id)
	s.Close()
	s.log.Info("session closed")
}
