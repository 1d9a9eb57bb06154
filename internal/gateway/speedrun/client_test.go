package speedrun

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ClientSuite struct {
	suite.Suite
	ctx context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ClientSuite) newServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Descenders", r.URL.Query().Get("name"))
		_, _ = w.Write([]byte(`{
			"data": [{
				"id": "kdkmxkx1",
				"levels": {"data": [
					{"id": "lvl-1", "name": "canyon-run"},
					{"id": "lvl-2", "name": "ridge-line"}
				]}
			}]
		}`))
	})
	mux.HandleFunc("/leaderboards/kdkmxkx1/level/lvl-1/7dg4yg4d", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": {
				"runs": [
					{"place": 1, "run": {"times": {"realtime_t": 41.2}}},
					{"place": 2, "run": {"times": {"realtime_t": 44.0}}}
				],
				"players": {"data": [
					{"names": {"international": "Alice"}},
					{"name": "Bob"}
				]}
			}
		}`))
	})
	return httptest.NewServer(mux)
}

func (s *ClientSuite) newClient(baseURL string) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	return NewClient(cfg)
}

func (s *ClientSuite) TestLeaderboard() {
	server := s.newServer()
	defer server.Close()

	client := s.newClient(server.URL)

	entries, err := client.Leaderboard(s.ctx, "canyon-run")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(1, entries[0].Place)
	s.Equal(41.2, entries[0].Time)
	s.Equal("Alice", entries[0].Name)
	s.Equal("Bob", entries[1].Name)
}

func (s *ClientSuite) TestLeaderboardUnknownTrailReturnsSentinel() {
	server := s.newServer()
	defer server.Close()

	client := s.newClient(server.URL)

	entries, err := client.Leaderboard(s.ctx, "no-such-trail")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("No times", entries[0].Name)
	s.Equal(1, entries[0].Place)
	s.Equal(0.0, entries[0].Time)
}

func (s *ClientSuite) TestLeaderboardServerError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := s.newClient(server.URL)

	_, err := client.Leaderboard(s.ctx, "canyon-run")
	s.Error(err)
}
