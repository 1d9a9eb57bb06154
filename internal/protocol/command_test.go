package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommandSuite struct {
	suite.Suite
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

func (s *CommandSuite) parse(line string) (Command, error) {
	return ParseCommand(strings.Split(line, Delimiter))
}

func (s *CommandSuite) TestParseCheckpointEnter() {
	cmd, err := s.parse("CHECKPOINT_ENTER|Start|trail_a|3|0.0")
	s.Require().NoError(err)
	s.Equal(CheckpointEnter{Kind: CheckpointStart, Trail: "trail_a", Total: 3, ClientTime: 0.0}, cmd)

	cmd, err = s.parse("CHECKPOINT_ENTER|Finish|trail_a|3|45.2")
	s.Require().NoError(err)
	s.Equal(CheckpointEnter{Kind: CheckpointFinish, Trail: "trail_a", Total: 3, ClientTime: 45.2}, cmd)
}

func (s *CommandSuite) TestParseCheckpointEnterRejectsUnknownKind() {
	_, err := s.parse("CHECKPOINT_ENTER|Sideways|trail_a|3|0.0")
	s.ErrorIs(err, ErrBadArguments)
}

func (s *CommandSuite) TestParseCheckpointEnterRejectsBadNumbers() {
	_, err := s.parse("CHECKPOINT_ENTER|Start|trail_a|three|0.0")
	s.ErrorIs(err, ErrBadArguments)

	_, err = s.parse("CHECKPOINT_ENTER|Start|trail_a|3|fast")
	s.ErrorIs(err, ErrBadArguments)
}

func (s *CommandSuite) TestParsePayloadAtThirdField() {
	// MAP_ENTER and BIKE_SWITCH reserve the second field.
	cmd, err := s.parse("MAP_ENTER|0|canyon")
	s.Require().NoError(err)
	s.Equal(MapEnter{Map: "canyon"}, cmd)

	cmd, err = s.parse("BIKE_SWITCH|x|enduro")
	s.Require().NoError(err)
	s.Equal(BikeSwitch{Bike: "enduro"}, cmd)
}

func (s *CommandSuite) TestParseIdentityAndScalars() {
	cmd, err := s.parse("STEAM_ID|76561198000000001")
	s.Require().NoError(err)
	s.Equal(SteamID{ID: "76561198000000001"}, cmd)

	cmd, err = s.parse("REP|42")
	s.Require().NoError(err)
	s.Equal(Rep{Value: 42}, cmd)

	cmd, err = s.parse("START_SPEED|999.0")
	s.Require().NoError(err)
	s.Equal(StartSpeed{Speed: 999.0}, cmd)
}

func (s *CommandSuite) TestParseRepIgnoresNonNumeric() {
	_, err := s.parse("REP|lots")
	s.ErrorIs(err, ErrBadArguments)
}

func (s *CommandSuite) TestParseBoundary() {
	cmd, err := s.parse("BOUNDRY_ENTER|trail_a|guid-1")
	s.Require().NoError(err)
	s.Equal(BoundaryEnter{Trail: "trail_a", GUID: "guid-1"}, cmd)

	cmd, err = s.parse("BOUNDRY_EXIT|trail_a|guid-1")
	s.Require().NoError(err)
	s.Equal(BoundaryExit{Trail: "trail_a", GUID: "guid-1"}, cmd)
}

func (s *CommandSuite) TestParseLogLineKeepsFragments() {
	cmd, err := s.parse("LOG_LINE|frame 10|pos 1.2 3.4")
	s.Require().NoError(err)
	s.Equal(LogLine{Fragments: []string{"frame 10", "pos 1.2 3.4"}}, cmd)
}

func (s *CommandSuite) TestParseLeaderboardRowCount() {
	cmd, err := s.parse("LEADERBOARD|canyon-run")
	s.Require().NoError(err)
	s.Equal(Leaderboard{Trail: "canyon-run"}, cmd)

	cmd, err = s.parse("LEADERBOARD|canyon-run|25")
	s.Require().NoError(err)
	s.Equal(Leaderboard{Trail: "canyon-run", Rows: 25}, cmd)

	// Garbled counts fall back to the default rather than dropping
	// the request.
	cmd, err = s.parse("LEADERBOARD|canyon-run|many")
	s.Require().NoError(err)
	s.Equal(Leaderboard{Trail: "canyon-run"}, cmd)
}

func (s *CommandSuite) TestParseUnknownKeyword() {
	_, err := s.parse("TELEPORT|0|0")
	s.ErrorIs(err, ErrUnknownCommand)
}

func (s *CommandSuite) TestParseExactKeywordMatch() {
	// Prefix matches must not dispatch: MAP_ENTERX is not MAP_ENTER.
	_, err := s.parse("MAP_ENTERX|0|canyon")
	s.ErrorIs(err, ErrUnknownCommand)
}

func (s *CommandSuite) TestParseMissingArguments() {
	_, err := s.parse("STEAM_ID")
	s.ErrorIs(err, ErrBadArguments)

	_, err = s.parse("BOUNDRY_ENTER|trail_a")
	s.ErrorIs(err, ErrBadArguments)
}
