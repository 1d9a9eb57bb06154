package protocol

import (
	"errors"
	"strconv"
)

// Parse errors. The session layer treats both as "ignore the line"; they
// are distinct so that policy is explicit rather than accidental.
var (
	ErrUnknownCommand = errors.New("unknown command keyword")
	ErrBadArguments   = errors.New("malformed command arguments")
)

// CheckpointKind discriminates the three checkpoint gate types.
type CheckpointKind string

const (
	CheckpointStart        CheckpointKind = "Start"
	CheckpointIntermediate CheckpointKind = "Intermediate"
	CheckpointFinish       CheckpointKind = "Finish"
)

// Command is a decoded, validated client command.
type Command interface {
	isCommand()
}

type SteamID struct{ ID string }
type SteamName struct{ Name string }
type WorldName struct{ World string }
type BoundaryEnter struct{ Trail, GUID string }
type BoundaryExit struct{ Trail, GUID string }

type CheckpointEnter struct {
	Kind       CheckpointKind
	Trail      string
	Total      int
	ClientTime float64
}

type Respawn struct{}

// MapEnter and BikeSwitch carry their payload in the third field; the
// client reserves the second for a mode flag this server does not use.
type MapEnter struct{ Map string }
type MapExit struct{}
type BikeSwitch struct{ Bike string }

type Rep struct{ Value int }
type StartSpeed struct{ Speed float64 }
type Trick struct{ Trick string }
type Version struct{ Version string }
type ChatMessage struct{ Text string }

// Leaderboard requests the top rows for a trail. Rows is 0 when the
// client omits the count; the session applies its default.
type Leaderboard struct {
	Trail string
	Rows  int
}
type SpeedrunLeaderboard struct{ Trail string }
type GetMedals struct{ Trail string }
type LogLine struct{ Fragments []string }

func (SteamID) isCommand()             {}
func (SteamName) isCommand()           {}
func (WorldName) isCommand()           {}
func (BoundaryEnter) isCommand()       {}
func (BoundaryExit) isCommand()        {}
func (CheckpointEnter) isCommand()     {}
func (Respawn) isCommand()             {}
func (MapEnter) isCommand()            {}
func (MapExit) isCommand()             {}
func (BikeSwitch) isCommand()          {}
func (Rep) isCommand()                 {}
func (StartSpeed) isCommand()          {}
func (Trick) isCommand()               {}
func (Version) isCommand()             {}
func (ChatMessage) isCommand()         {}
func (Leaderboard) isCommand()         {}
func (SpeedrunLeaderboard) isCommand() {}
func (GetMedals) isCommand()           {}
func (LogLine) isCommand()             {}

// ParseCommand validates a token sequence into a typed Command. The
// keyword must match exactly; arity and field types are checked before
// anything reaches a handler.
func ParseCommand(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return nil, ErrUnknownCommand
	}
	switch tokens[0] {
	case "STEAM_ID":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		return SteamID{ID: tokens[1]}, nil
	case "STEAM_NAME":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		return SteamName{Name: tokens[1]}, nil
	case "WORLD_NAME":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		return WorldName{World: tokens[1]}, nil
	case "BOUNDRY_ENTER":
		if len(tokens) < 3 {
			return nil, ErrBadArguments
		}
		return BoundaryEnter{Trail: tokens[1], GUID: tokens[2]}, nil
	case "BOUNDRY_EXIT":
		if len(tokens) < 3 {
			return nil, ErrBadArguments
		}
		return BoundaryExit{Trail: tokens[1], GUID: tokens[2]}, nil
	case "CHECKPOINT_ENTER":
		if len(tokens) < 5 {
			return nil, ErrBadArguments
		}
		kind := CheckpointKind(tokens[1])
		switch kind {
		case CheckpointStart, CheckpointIntermediate, CheckpointFinish:
		default:
			return nil, ErrBadArguments
		}
		total, err := strconv.Atoi(tokens[3])
		if err != nil {
			return nil, ErrBadArguments
		}
		clientTime, err := strconv.ParseFloat(tokens[4], 64)
		if err != nil {
			return nil, ErrBadArguments
		}
		return CheckpointEnter{Kind: kind, Trail: tokens[2], Total: total, ClientTime: clientTime}, nil
	case "RESPAWN":
		return Respawn{}, nil
	case "MAP_ENTER":
		if len(tokens) < 3 {
			return nil, ErrBadArguments
		}
		return MapEnter{Map: tokens[2]}, nil
	case "MAP_EXIT":
		return MapExit{}, nil
	case "BIKE_SWITCH":
		if len(tokens) < 3 {
			return nil, ErrBadArguments
		}
		return BikeSwitch{Bike: tokens[2]}, nil
	case "REP":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		value, err := strconv.Atoi(tokens[1])
		if err != nil {
			return nil, ErrBadArguments
		}
		return Rep{Value: value}, nil
	case "START_SPEED":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		speed, err := strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			return nil, ErrBadArguments
		}
		return StartSpeed{Speed: speed}, nil
	case "TRICK":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		return Trick{Trick: tokens[1]}, nil
	case "VERSION":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		return Version{Version: tokens[1]}, nil
	case "CHAT_MESSAGE":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		return ChatMessage{Text: tokens[1]}, nil
	case "LEADERBOARD":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		cmd := Leaderboard{Trail: tokens[1]}
		if len(tokens) >= 3 {
			// A garbled count falls back to the default rather
			// than dropping the whole request.
			if rows, err := strconv.Atoi(tokens[2]); err == nil && rows > 0 {
				cmd.Rows = rows
			}
		}
		return cmd, nil
	case "SPEEDRUN_DOT_COM_LEADERBOARD":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		return SpeedrunLeaderboard{Trail: tokens[1]}, nil
	case "GET_MEDALS":
		if len(tokens) < 2 {
			return nil, ErrBadArguments
		}
		return GetMedals{Trail: tokens[1]}, nil
	case "LOG_LINE":
		return LogLine{Fragments: tokens[1:]}, nil
	}
	return nil, ErrUnknownCommand
}
