package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nohumanman/desc-comp-toolkit/internal/api/response"
	"github.com/nohumanman/desc-comp-toolkit/internal/storage"
)

const defaultLeaderboardLimit = 10

// LeaderboardHandler serves trail leaderboards from storage
type LeaderboardHandler struct {
	store storage.Store
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(store storage.Store) *LeaderboardHandler {
	return &LeaderboardHandler{store: store}
}

// Get handles GET /api/v1/leaderboards/{trail}
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	trail := mux.Vars(r)["trail"]

	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.store.GetLeaderboard(r.Context(), trail, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(trail, entries))
}
