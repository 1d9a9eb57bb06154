package protocol

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CodecSuite struct {
	suite.Suite
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) TestReaderSplitsOnPipe() {
	r := NewReader(strings.NewReader("CHECKPOINT_ENTER|Start|trail_a|3|0.0\n"))

	tokens, err := r.Next()
	s.Require().NoError(err)
	s.Equal([]string{"CHECKPOINT_ENTER", "Start", "trail_a", "3", "0.0"}, tokens)
}

func (s *CodecSuite) TestReaderSkipsEmptyLines() {
	r := NewReader(strings.NewReader("\n\nRESPAWN\n\n"))

	tokens, err := r.Next()
	s.Require().NoError(err)
	s.Equal([]string{"RESPAWN"}, tokens)

	_, err = r.Next()
	s.ErrorIs(err, io.EOF)
}

func (s *CodecSuite) TestReaderDropsInvalidUTF8() {
	var buf bytes.Buffer
	buf.WriteString("TRICK|")
	buf.Write([]byte{0xff, 0xfe, 0xfd})
	buf.WriteString("\nVERSION|1.0\n")

	r := NewReader(&buf)

	tokens, err := r.Next()
	s.Require().NoError(err)
	s.Equal([]string{"VERSION", "1.0"}, tokens)
}

func (s *CodecSuite) TestReaderEOFOnStreamEnd() {
	r := NewReader(strings.NewReader(""))

	_, err := r.Next()
	s.ErrorIs(err, io.EOF)
}

func (s *CodecSuite) TestWriterJoinsWithPipeAndNewline() {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Send("SET_BIKE", "enduro", "76561198000000001")

	s.Equal("SET_BIKE|enduro|76561198000000001\n", buf.String())
}

func (s *CodecSuite) TestWriterSwallowsWriteErrors() {
	w := NewWriter(failingWriter{})

	s.NotPanics(func() {
		w.Send("SUCCESS")
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}
