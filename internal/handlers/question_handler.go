// internal/handlers/question_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/service"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	service service.QuestionService
	logger  *slog.Logger
}

func NewQuestionHandler(s service.QuestionService, logger *slog.Logger) *QuestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionHandler{
		service: s,
		logger:  logger,
	}
}

// ListQuestions は問題一覧を返すハンドラ。?category= で絞り込みます。
// 絞り込みなし・category=all はいずれも全件を返します。
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListQuestions"))

	category := model.Category(r.URL.Query().Get("category"))

	questions, err := h.service.ListQuestions(r.Context(), category)
	if err != nil {
		logger.Error("Error listing questions in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if questions == nil {
		questions = []*model.Question{}
	}
	logger.Info("Questions listed successfully", slog.Int("count", len(questions)), slog.String("category", string(category)))
	webutil.RespondWithJSON(w, http.StatusOK, questions, logger)
}

// GetQuestion は特定の問題を取得するハンドラ
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetQuestion"))

	questionID := chi.URLParam(r, "question_id")
	logger = logger.With(slog.String("question_id", questionID))

	question, err := h.service.GetQuestion(r.Context(), questionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Question not found in service")
			appErr := model.NewAppError("NOT_FOUND", "指定された問題が見つかりません。", "question_id", model.ErrNotFound)
			webutil.HandleError(w, logger, appErr)
			return
		}
		logger.Error("Error getting question from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Question retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, question, logger)
}

// PostQuestion は新しい問題を登録するハンドラ
func (h *QuestionHandler) PostQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostQuestion"))

	var req model.CreateQuestionRequest
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

	question, err := h.service.CreateQuestion(r.Context(), &req)
	if err != nil {
		logger.Error("Error creating question in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Question created successfully", slog.String("question_id", question.QuestionID))
	webutil.RespondWithJSON(w, http.StatusCreated, question, logger)
}
