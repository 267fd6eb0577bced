package handlers

import (
	"log/slog"
	"net/http"

	"lifesim-server/internal/game"
	"lifesim-server/internal/shared/response"
)

type RewardsHandler struct {
	service *game.Service
}

func NewRewardsHandler(service *game.Service) *RewardsHandler {
	return &RewardsHandler{service: service}
}

func (h *RewardsHandler) ClaimDaily(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "claim_daily_reward")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	reward, err := h.service.ClaimDailyReward(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, reward)
}

func (h *RewardsHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_achievements")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	views, err := h.service.Achievements(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, views)
}

func (h *RewardsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "update_settings")

	id, err := playerID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var settings game.Settings
	if err := decodeJSON(w, r, &settings); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	saved, err := h.service.UpdateSettings(r.Context(), id, settings)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, saved)
}
