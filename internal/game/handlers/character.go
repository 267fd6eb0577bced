package handlers

import (
	"log/slog"
	"net/http"

	"lifesim-server/internal/character"
	"lifesim-server/internal/game"
	"lifesim-server/internal/shared/response"
)

type CharacterHandler struct {
	service *game.Service
}

func NewCharacterHandler(service *game.Service) *CharacterHandler {
	return &CharacterHandler{service: service}
}

type createCharacterRequest struct {
	Name      string           `json:"name"`
	BirthYear int              `json:"birth_year"`
	BirthCity string           `json:"birth_city"`
	Gender    character.Gender `json:"gender"`
}

func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_character")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req createCharacterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ch, err := h.service.CreateCharacter(r.Context(), id, character.Identity{
		Name:      req.Name,
		BirthYear: req.BirthYear,
		BirthCity: req.BirthCity,
		Gender:    req.Gender,
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, ch)
}

func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_character")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ch, err := h.service.GetCharacter(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, ch)
}

type rewindRequest struct {
	Steps int `json:"steps"`
}

func (h *CharacterHandler) Rewind(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "rewind_character")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req rewindRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.Rewind(r.Context(), id, req.Steps)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}
