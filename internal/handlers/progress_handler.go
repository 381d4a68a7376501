// internal/handlers/progress_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/service"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type ProgressHandler struct {
	service service.ProgressService
	logger  *slog.Logger
}

func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		service: s,
		logger:  logger,
	}
}

// GetUserProgress はユーザーの全進捗レコードを返すハンドラ
func (h *ProgressHandler) GetUserProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetUserProgress"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Error("User ID missing from context", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID))

	progresses, err := h.service.GetUserProgress(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting user progress in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if progresses == nil {
		progresses = []*model.UserProgress{}
	}
	logger.Info("User progress listed successfully", slog.Int("count", len(progresses)))
	webutil.RespondWithJSON(w, http.StatusOK, progresses, logger)
}

// GetQuestionProgress は特定の問題に対する進捗レコードを返すハンドラ。
// レコードが存在しなければ404になります。
func (h *ProgressHandler) GetQuestionProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetQuestionProgress"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Error("User ID missing from context", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	questionID := chi.URLParam(r, "question_id")
	logger = logger.With(slog.String("user_id", userID), slog.String("question_id", questionID))

	progress, err := h.service.GetQuestionProgress(r.Context(), userID, questionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Progress record not found")
			appErr := model.NewAppError("NOT_FOUND", "指定された問題の進捗が見つかりません。", "question_id", model.ErrNotFound)
			webutil.HandleError(w, logger, appErr)
			return
		}
		logger.Error("Error getting question progress in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Question progress retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, progress, logger)
}

// UpdateProgress は進捗レコードを部分マージで更新するハンドラ。
// レコードがなければデフォルト値で作成されます。
func (h *ProgressHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateProgress"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Error("User ID missing from context", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	questionID := chi.URLParam(r, "question_id")
	logger = logger.With(slog.String("user_id", userID), slog.String("question_id", questionID))

	var req model.UpdateProgressRequest
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

	progress, err := h.service.UpdateProgress(r.Context(), userID, questionID, &req)
	if err != nil {
		logger.Error("Error upserting progress in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Progress upserted successfully", slog.String("progress_id", progress.ProgressID))
	webutil.RespondWithJSON(w, http.StatusOK, progress, logger)
}

// SubmitAnswer は回答を記録するハンドラ。カウンタの加算はストア側でアトミックに行われます。
func (h *ProgressHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitAnswer"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Error("User ID missing from context", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	questionID := chi.URLParam(r, "question_id")
	logger = logger.With(slog.String("user_id", userID), slog.String("question_id", questionID))

	var req model.SubmitAnswerRequest
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

	result, err := h.service.RecordAnswer(r.Context(), userID, questionID, *req.SelectedIndex)
	if err != nil {
		logger.Error("Error recording answer in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Answer recorded successfully", slog.Bool("is_correct", result.IsCorrect))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}

// GetBookmarkedQuestions はブックマーク済みの問題一覧を返すハンドラ。
// 解決済みのQuestionを返します（IDの列ではない）。
func (h *ProgressHandler) GetBookmarkedQuestions(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetBookmarkedQuestions"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Error("User ID missing from context", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID))

	questions, err := h.service.GetBookmarkedQuestions(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting bookmarked questions in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if questions == nil {
		questions = []*model.Question{}
	}
	logger.Info("Bookmarked questions listed successfully", slog.Int("count", len(questions)))
	webutil.RespondWithJSON(w, http.StatusOK, questions, logger)
}
