package handlers

import (
	"log/slog"
	"net/http"

	"lifesim-server/internal/game"
	"lifesim-server/internal/shared/errors"
	"lifesim-server/internal/shared/response"
)

type GameHandler struct {
	service *game.Service
}

func NewGameHandler(service *game.Service) *GameHandler {
	return &GameHandler{service: service}
}

func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_game_state")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	snap, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snap)
}

func (h *GameHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_levels")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	levels, err := h.service.Levels(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, levels)
}

func (h *GameHandler) StartLevel(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "start_level")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	levelID := r.PathValue("id")
	if levelID == "" {
		response.Error(w, r, logger, errors.Validation("level ID is required"))
		return
	}

	state, err := h.service.StartLevel(r.Context(), id, levelID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, state)
}

func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "abandon_level")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	outcome, err := h.service.AbandonLevel(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, outcome)
}

func (h *GameHandler) NextEvent(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "next_event")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ev, err := h.service.NextEvent(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, ev)
}

type chooseRequest struct {
	Option string `json:"option"`
}

func (h *GameHandler) Choose(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "choose_option")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	eventID := r.PathValue("id")
	if eventID == "" {
		response.Error(w, r, logger, errors.Validation("event ID is required"))
		return
	}

	var req chooseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if req.Option == "" {
		response.Error(w, r, logger, errors.Validation("option is required"))
		return
	}

	result, err := h.service.Choose(r.Context(), id, eventID, req.Option)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}
