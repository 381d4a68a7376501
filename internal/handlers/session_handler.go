// internal/handlers/session_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/service"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	service service.SessionService
	logger  *slog.Logger
}

func NewSessionHandler(s service.SessionService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		service: s,
		logger:  logger,
	}
}

// PostSession は学習セッションを開始するハンドラ
func (h *SessionHandler) PostSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSession"))

	var req model.CreateSessionRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	session, err := h.service.CreateSession(r.Context(), &req)
	if err != nil {
		logger.Error("Error creating session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Study session created successfully", slog.String("session_id", session.SessionID))
	webutil.RespondWithJSON(w, http.StatusCreated, session, logger)
}

// PatchSession は学習セッションを部分更新するハンドラ。
// 存在しないセッションIDは404になります。
func (h *SessionHandler) PatchSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchSession"))

	sessionID := chi.URLParam(r, "session_id")
	logger = logger.With(slog.String("session_id", sessionID))

	var req model.UpdateSessionRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	session, err := h.service.UpdateSession(r.Context(), sessionID, &req)
	if err != nil {
		logger.Error("Error updating session in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Study session updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, session, logger)
}
