package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nohumanman/desc-comp-toolkit/internal/model"
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

func (s *ClientSuite) TestAvatarURL() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/ISteamUser/GetPlayerSummaries/v0002/", r.URL.Path)
		s.Equal("test-key", r.URL.Query().Get("key"))
		s.Equal("76561198000000001", r.URL.Query().Get("steamids"))
		_, _ = w.Write([]byte(`{"response":{"players":[{"avatarfull":"https://avatars.example.com/full.jpg"}]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	avatar, err := client.AvatarURL(s.ctx, "76561198000000001")
	s.Require().NoError(err)
	s.Equal("https://avatars.example.com/full.jpg", avatar)
}

func (s *ClientSuite) TestAvatarURLUnknownPlayer() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"players":[]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	_, err := client.AvatarURL(s.ctx, "76561198000000001")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ClientSuite) TestAvatarURLServerError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	_, err := client.AvatarURL(s.ctx, "76561198000000001")
	s.Error(err)
}
