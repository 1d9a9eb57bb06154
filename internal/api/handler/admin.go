package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nohumanman/desc-comp-toolkit/internal/api/request"
	"github.com/nohumanman/desc-comp-toolkit/internal/api/response"
	"github.com/nohumanman/desc-comp-toolkit/internal/model"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage"
)

// AdminHandler handles the token-gated moderation and configuration
// endpoints.
type AdminHandler struct {
	store    storage.Store
	sessions SessionDirectory
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.Store, sessions SessionDirectory) *AdminHandler {
	return &AdminHandler{store: store, sessions: sessions}
}

// SetBan handles PUT /api/v1/players/{steam_id}/ban. Setting a
// non-NONE status also kicks any live session for that player.
func (h *AdminHandler) SetBan(w http.ResponseWriter, r *http.Request) {
	steamID := mux.Vars(r)["steam_id"]

	var req request.SetBan
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	status := model.BanStatus(req.Status)
	switch status {
	case model.BanNone, model.BanClose, model.BanCrash, model.BanIllegal:
	default:
		WriteError(w, NewInvalidRequestError("status must be NONE, CLOSE, CRASH, or ILLEGAL"))
		return
	}

	if err := h.store.SetBanStatus(r.Context(), steamID, status); err != nil {
		WriteError(w, err)
		return
	}

	if status != model.BanNone {
		h.sessions.Kick(steamID)
	}
	response.NoContent(w)
}

// SetMaxStartSpeed handles PUT /api/v1/trails/{trail}/max-start-speed
func (h *AdminHandler) SetMaxStartSpeed(w http.ResponseWriter, r *http.Request) {
	trail := mux.Vars(r)["trail"]

	var req request.SetMaxStartSpeed
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Speed <= 0 {
		WriteError(w, NewInvalidRequestError("speed must be positive"))
		return
	}

	if err := h.store.SetMaxStartSpeed(r.Context(), trail, req.Speed); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// SetStartBike handles PUT /api/v1/worlds/{world}/start-bike
func (h *AdminHandler) SetStartBike(w http.ResponseWriter, r *http.Request) {
	world := mux.Vars(r)["world"]

	var req request.SetStartBike
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Bike == "" {
		WriteError(w, NewInvalidRequestError("bike is required"))
		return
	}

	if err := h.store.SetStartBike(r.Context(), world, req.Bike); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// SetMedals handles PUT /api/v1/players/{steam_id}/medals/{trail}
func (h *AdminHandler) SetMedals(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req request.SetMedals
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	medals := model.Medals{
		Rainbow: req.Rainbow,
		Gold:    req.Gold,
		Silver:  req.Silver,
		Bronze:  req.Bronze,
	}
	if err := h.store.SetMedals(r.Context(), vars["steam_id"], vars["trail"], medals); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
