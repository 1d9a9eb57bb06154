package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nohumanman/desc-comp-toolkit/internal/api/response"
	"github.com/nohumanman/desc-comp-toolkit/internal/model"
	"github.com/nohumanman/desc-comp-toolkit/internal/services/session"
)

// SessionDirectory is the view of the live-session registry the API
// needs: who is connected, and the ability to kick.
type SessionDirectory interface {
	Count() int
	Views() []session.View
	Kick(steamID string) int
}

// PlayerHandler handles the connected-player endpoints
type PlayerHandler struct {
	sessions SessionDirectory
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(sessions SessionDirectory) *PlayerHandler {
	return &PlayerHandler{sessions: sessions}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.PlayerListFromViews(h.sessions.Views()))
}

// Get handles GET /api/v1/players/{steam_id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	steamID := mux.Vars(r)["steam_id"]

	for _, v := range h.sessions.Views() {
		if v.SteamID == steamID {
			response.JSON(w, http.StatusOK, response.PlayerFromView(v))
			return
		}
	}
	WriteError(w, model.ErrPlayerNotFound)
}

// Kick handles DELETE /api/v1/players/{steam_id}
func (h *PlayerHandler) Kick(w http.ResponseWriter, r *http.Request) {
	steamID := mux.Vars(r)["steam_id"]

	kicked := h.sessions.Kick(steamID)
	if kicked == 0 {
		WriteError(w, model.ErrPlayerNotFound)
		return
	}
	response.JSON(w, http.StatusOK, response.Kicked{SteamID: steamID, Kicked: kicked})
}
