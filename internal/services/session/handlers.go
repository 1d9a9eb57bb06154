package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/nohumanman/desc-comp-toolkit/internal/model"
	"github.com/nohumanman/desc-comp-toolkit/internal/protocol"
	"github.com/nohumanman/desc-comp-toolkit/internal/services/timer"
)

// Timer invalidation reasons sent to the log when a run is disqualified.
const (
	reasonRespawn    = "Respawn/death Detected"
	reasonBikeSwitch = "You switched bikes!"
	reasonStartSpeed = "You went through the start too fast!"
	reasonMapExit    = "Map exit detected"
)

// bannedNames are placeholder identities from cracked copies; a client
// presenting one is banned outright.
var bannedNames = []string{"descender", "goldberg", "skidrow", "player"}

// defaultLeaderboardRows bounds LEADERBOARD replies.
const defaultLeaderboardRows = 10

// Handle parses and dispatches one decoded line. Unknown keywords and
// malformed arguments are dropped by policy: the client is never told
// its command failed.
func (s *Session) Handle(ctx context.Context, tokens []string) {
	cmd, err := protocol.ParseCommand(tokens)
	if err != nil {
		s.log.Debug("ignoring line", slog.String("error", err.Error()), slog.Any("tokens", tokens))
		return
	}

	switch c := cmd.(type) {
	case protocol.SteamID:
		s.setSteamID(ctx, c.ID)
	case protocol.SteamName:
		s.setSteamName(ctx, c.Name)
	case protocol.WorldName:
		s.setWorldName(ctx, c.World)
	case protocol.BoundaryEnter:
		s.getTimer(c.Trail).AddBoundary(c.GUID)
	case protocol.BoundaryExit:
		s.getTimer(c.Trail).RemoveBoundary(c.GUID)
	case protocol.CheckpointEnter:
		s.onCheckpointEnter(ctx, c)
	case protocol.Respawn:
		s.log.Info("respawn", slog.String("steam_id", s.SteamID()))
		s.invalidateAllTimers(reasonRespawn)
	case protocol.MapEnter:
		s.onMapEnter(ctx, c.Map)
	case protocol.MapExit:
		s.onMapExit(ctx)
	case protocol.BikeSwitch:
		s.onBikeSwitch(c.Bike)
	case protocol.Rep:
		s.mu.Lock()
		s.info.Reputation = c.Value
		s.mu.Unlock()
	case protocol.StartSpeed:
		s.onStartSpeed(ctx, c.Speed)
	case protocol.Trick:
		s.mu.Lock()
		s.info.LastTrick = c.Trick
		s.mu.Unlock()
	case protocol.Version:
		s.mu.Lock()
		s.info.Version = c.Version
		s.mu.Unlock()
	case protocol.ChatMessage:
		s.onChatMessage(c.Text)
	case protocol.Leaderboard:
		s.onLeaderboard(ctx, c.Trail, c.Rows)
	case protocol.SpeedrunLeaderboard:
		s.onSpeedrunLeaderboard(ctx, c.Trail)
	case protocol.GetMedals:
		s.onGetMedals(ctx, c.Trail)
	case protocol.LogLine:
		if err := s.deps.Logs.Append(s.SteamID(), c.Fragments); err != nil {
			s.log.Debug("diagnostic log append failed", slog.String("error", err.Error()))
		}
	}
}

// Identity

func (s *Session) setSteamID(ctx context.Context, id string) {
	s.mu.Lock()
	s.info.SteamID = id
	bothSet := s.info.SteamName != "" && s.info.SteamID != ""
	s.mu.Unlock()

	s.log.Info("steam id set", slog.String("steam_id", id))
	if bothSet {
		s.onIdentityBound(ctx)
	}
}

func (s *Session) setSteamName(ctx context.Context, name string) {
	s.mu.Lock()
	s.info.SteamName = name
	bothSet := s.info.SteamName != "" && s.info.SteamID != ""
	s.mu.Unlock()

	s.log.Info("steam name set", slog.String("steam_name", name))
	if bothSet {
		s.onIdentityBound(ctx)
	}
}

// onIdentityBound runs once both identity halves are known: alias
// persistence, duplicate-login eviction, offline god toggle, and the
// two ban paths.
func (s *Session) onIdentityBound(ctx context.Context) {
	view := s.Snapshot()

	if err := s.deps.Store.SubmitAlias(ctx, view.SteamID, view.SteamName); err != nil {
		s.log.Warn("failed to submit alias", slog.String("error", err.Error()))
	}

	for _, evicted := range s.deps.Registry.EvictDuplicates(s) {
		s.log.Warn("duplicate steam id, evicted older session",
			slog.String("steam_id", view.SteamID),
			slog.String("evicted_session_id", evicted.ID()),
		)
	}

	if view.SteamID == "" || view.SteamID == model.OfflineSteamID {
		s.Send("TOGGLE_GOD")
	}

	for _, banned := range bannedNames {
		if strings.EqualFold(view.SteamName, banned) {
			s.ban(model.BanIllegal)
			return
		}
	}

	status, err := s.deps.Store.GetBanStatus(ctx, view.SteamID)
	if err != nil {
		s.log.Warn("failed to look up ban status", slog.String("error", err.Error()))
		return
	}
	if status != model.BanNone {
		s.ban(status)
	}
}

// ban sends the ban notice and drops the connection. ILLEGAL bans also
// flip god mode so the banned client is visibly marked.
func (s *Session) ban(status model.BanStatus) {
	s.log.Info("banning session",
		slog.String("steam_id", s.SteamID()),
		slog.String("type", string(status)),
	)
	if status == model.BanIllegal {
		s.Send("TOGGLE_GOD")
	}
	s.Send("BANNED", string(status))
	s.Close()
}

func (s *Session) setWorldName(ctx context.Context, world string) {
	s.mu.Lock()
	s.info.WorldName = world
	s.mu.Unlock()

	view := s.Snapshot()
	avatar := s.avatarSrc(ctx)
	if err := s.deps.Store.UpdatePlayer(ctx, view.SteamID, view.SteamName, avatar); err != nil {
		s.log.Warn("failed to update player profile", slog.String("error", err.Error()))
	}

	host, port := remoteHostPort(s.conn)
	if err := s.deps.Store.SubmitIP(ctx, view.SteamID, host, port); err != nil {
		s.log.Warn("failed to record address", slog.String("error", err.Error()))
	}
}

// avatarSrc resolves the player's avatar: cached value, then the Steam
// API, then whatever the storage gateway remembers.
func (s *Session) avatarSrc(ctx context.Context) string {
	s.mu.RLock()
	cached := s.info.AvatarSrc
	steamID := s.info.SteamID
	s.mu.RUnlock()
	if cached != "" {
		return cached
	}

	avatar, err := s.deps.Avatars.AvatarURL(ctx, steamID)
	if err != nil {
		avatar, err = s.deps.Store.GetAvatar(ctx, steamID)
		if err != nil {
			return ""
		}
	}

	s.mu.Lock()
	s.info.AvatarSrc = avatar
	s.mu.Unlock()
	return avatar
}

// Map lifecycle

func (s *Session) onMapEnter(ctx context.Context, mapName string) {
	now := s.deps.Clock.Now()

	s.mu.Lock()
	s.info.WorldName = mapName
	s.info.TimeStarted = now
	bike := s.info.BikeType
	s.mu.Unlock()

	s.updatePresence(ctx)

	if bike == "" {
		bike = s.defaultBike(ctx, mapName)
		s.mu.Lock()
		s.info.BikeType = bike
		s.mu.Unlock()
	}

	view := s.Snapshot()
	s.broadcast("SET_BIKE", view.BikeType, view.SteamID)
}

func (s *Session) onMapExit(ctx context.Context) {
	s.updatePresence(ctx)

	s.invalidateAllTimers(reasonMapExit)
	s.timers = make(map[string]*timer.Timer)

	view := s.Snapshot()
	s.mu.RLock()
	started := s.info.TimeStarted
	s.mu.RUnlock()

	if err := s.deps.Store.EndSession(ctx, view.SteamID, started, s.deps.Clock.Now(), view.WorldName); err != nil {
		s.log.Warn("failed to persist session record", slog.String("error", err.Error()))
	}

	s.Close()
}

func (s *Session) defaultBike(ctx context.Context, world string) string {
	bike, err := s.deps.Store.StartBike(ctx, world)
	if err != nil {
		return model.DefaultBike
	}
	return bike
}

func (s *Session) updatePresence(ctx context.Context) {
	status := strconv.Itoa(s.deps.Registry.Count()) + " concurrent users!"
	if err := s.deps.Presence.SetPresence(ctx, status); err != nil {
		s.log.Debug("presence update failed", slog.String("error", err.Error()))
	}
}

// Anti-cheat events

func (s *Session) onBikeSwitch(bike string) {
	s.mu.Lock()
	s.info.BikeType = bike
	s.mu.Unlock()
	s.invalidateAllTimers(reasonBikeSwitch)
}

func (s *Session) onStartSpeed(ctx context.Context, speed float64) {
	s.log.Info("start speed", slog.String("steam_id", s.SteamID()), slog.Float64("speed", speed))

	for trail, t := range s.timers {
		t.SetStartingSpeed(speed)

		maxSpeed, err := s.deps.Store.MaxStartSpeed(ctx, trail)
		if err != nil {
			// No configured limit for this trail, nothing to enforce.
			continue
		}
		if speed > maxSpeed {
			t.Invalidate(reasonStartSpeed)
		}
	}
}

func (s *Session) invalidateAllTimers(reason string) {
	for _, t := range s.timers {
		t.Invalidate(reason)
	}
}

// getTimer lazily creates the timer for a trail.
func (s *Session) getTimer(trail string) *timer.Timer {
	t, ok := s.timers[trail]
	if !ok {
		t = timer.New(trail, s.deps.Clock, s.log)
		s.timers[trail] = t
	}
	return t
}

func (s *Session) onCheckpointEnter(ctx context.Context, c protocol.CheckpointEnter) {
	s.log.Info("checkpoint",
		slog.String("steam_id", s.SteamID()),
		slog.String("trail", c.Trail),
		slog.String("kind", string(c.Kind)),
	)

	t := s.getTimer(c.Trail)
	t.SetTotalCheckpoints(c.Total)

	switch c.Kind {
	case protocol.CheckpointStart:
		t.Start(c.Total)
	case protocol.CheckpointIntermediate:
		t.Checkpoint(c.ClientTime)
	case protocol.CheckpointFinish:
		result, ok := t.Finish(c.ClientTime)
		if !ok {
			return
		}
		view := s.Snapshot()
		sub := model.TimeSubmission{
			SteamID:     view.SteamID,
			Trail:       result.Trail,
			Time:        result.Time,
			Checkpoints: result.Checkpoints,
			StartSpeed:  result.StartSpeed,
			Bike:        view.BikeType,
			World:       view.WorldName,
			Version:     view.Version,
			SubmittedAt: s.deps.Clock.Now(),
		}
		if err := s.deps.Store.SubmitTime(ctx, sub); err != nil {
			s.log.Error("failed to submit time", slog.String("error", err.Error()))
		}
	}
}

// Chat and queries

func (s *Session) onChatMessage(text string) {
	view := s.Snapshot()
	s.log.Info("chat message", slog.String("steam_id", view.SteamID), slog.String("text", text))
	s.broadcast("CHAT_MESSAGE", view.SteamName, view.WorldName, text)
}

// broadcast sends one line to every live session, this one included.
func (s *Session) broadcast(fields ...string) {
	for _, target := range s.deps.Registry.Snapshot() {
		target.Send(fields...)
	}
}

func (s *Session) onLeaderboard(ctx context.Context, trail string, limit int) {
	if limit <= 0 {
		limit = defaultLeaderboardRows
	}
	rows, err := s.deps.Store.GetLeaderboard(ctx, trail, limit)
	if err != nil {
		s.log.Warn("leaderboard query failed", slog.String("error", err.Error()))
		return
	}
	s.sendColumnBoard("LEADERBOARD", trail, rows)
}

func (s *Session) onSpeedrunLeaderboard(ctx context.Context, trail string) {
	rows, err := s.deps.External.Leaderboard(ctx, trail)
	if err != nil {
		s.log.Warn("speedrun.com query failed", slog.String("error", err.Error()))
		return
	}
	s.sendColumnBoard("SPEEDRUN_DOT_COM_LEADERBOARD", trail, rows)
}

func (s *Session) sendColumnBoard(keyword, trail string, rows []model.LeaderboardEntry) {
	payload, err := json.Marshal(model.ColumnLeaderboard(rows))
	if err != nil {
		s.log.Error("failed to encode leaderboard", slog.String("error", err.Error()))
		return
	}
	s.Send(keyword, trail, string(payload))
}

func (s *Session) onGetMedals(ctx context.Context, trail string) {
	medals, err := s.deps.Store.GetMedals(ctx, s.SteamID(), trail)
	if err != nil {
		s.log.Warn("medal query failed", slog.String("error", err.Error()))
		return
	}
	s.Send("SET_MEDAL", trail,
		formatFloat(medals.Rainbow),
		formatFloat(medals.Gold),
		formatFloat(medals.Silver),
		formatFloat(medals.Bronze),
	)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func remoteHostPort(conn net.Conn) (string, int) {
	host, portStr, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String(), 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}
