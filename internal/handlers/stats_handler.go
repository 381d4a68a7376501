// internal/handlers/stats_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/service"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/webutil"
)

type StatsHandler struct {
	service service.StatsService
	logger  *slog.Logger
}

func NewStatsHandler(s service.StatsService, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		service: s,
		logger:  logger,
	}
}

// GetUserStats はユーザー統計を返すハンドラ。
// 未知のユーザーはエラーではなく空の集計になります。
func (h *StatsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetUserStats"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Error("User ID missing from context", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID))

	stats, err := h.service.ComputeStats(r.Context(), userID)
	if err != nil {
		logger.Error("Error computing stats in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Stats computed successfully",
		slog.Int("total_answered", stats.TotalAnswered),
		slog.Int("total_correct", stats.TotalCorrect),
	)
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}
