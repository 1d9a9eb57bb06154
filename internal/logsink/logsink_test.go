package logsink

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nohumanman/desc-comp-toolkit/internal/dependencies/mocks"
)

type SinkSuite struct {
	suite.Suite
	dir   string
	clock *mocks.MockClock
	sink  *Sink
}

func TestSinkSuite(t *testing.T) {
	suite.Run(t, new(SinkSuite))
}

func (s *SinkSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.clock = mocks.NewMockClock(time.Unix(1700000000, 0))

	sink, err := New(s.dir, s.clock)
	s.Require().NoError(err)
	s.sink = sink
}

func (s *SinkSuite) TestAppendWritesTimestampedLine() {
	err := s.sink.Append("76561198000000001", []string{"frame 10", "pos 1.2 3.4"})
	s.Require().NoError(err)

	data, err := os.ReadFile(filepath.Join(s.dir, "76561198000000001.txt"))
	s.Require().NoError(err)
	s.Equal("1700000000 - frame 10|pos 1.2 3.4\n", string(data))
}

func (s *SinkSuite) TestAppendAccumulates() {
	s.Require().NoError(s.sink.Append("id-1", []string{"a"}))
	s.clock.Advance(time.Second)
	s.Require().NoError(s.sink.Append("id-1", []string{"b"}))

	data, err := os.ReadFile(filepath.Join(s.dir, "id-1.txt"))
	s.Require().NoError(err)
	s.Equal("1700000000 - a\n1700000001 - b\n", string(data))
}

func (s *SinkSuite) TestAppendWithoutIdentity() {
	err := s.sink.Append("", []string{"early line"})
	s.Require().NoError(err)

	_, err = os.Stat(filepath.Join(s.dir, "anonymous.txt"))
	s.NoError(err)
}

func (s *SinkSuite) TestAppendSanitizesPathTraversal() {
	err := s.sink.Append("../escape", []string{"x"})
	s.Require().NoError(err)

	_, err = os.Stat(filepath.Join(s.dir, "escape.txt"))
	s.NoError(err)
}
