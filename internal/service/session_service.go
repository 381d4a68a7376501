// internal/service/session_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/config"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService は学習セッションの作成と更新を提供します。
// セッションは監査記録であり、統計には使用しません。
type SessionService interface {
	CreateSession(ctx context.Context, req *model.CreateSessionRequest) (*model.StudySession, error)
	UpdateSession(ctx context.Context, sessionID string, req *model.UpdateSessionRequest) (*model.StudySession, error)
}

type sessionService struct {
	db          *gorm.DB
	sessionRepo repository.SessionRepository
	cfg         *config.Config
}

func NewSessionService(db *gorm.DB, sessionRepo repository.SessionRepository, cfg *config.Config) SessionService {
	return &sessionService{
		db:          db,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, req *model.CreateSessionRequest) (*model.StudySession, error) {
	logger := middleware.GetLogger(ctx).With("user_id", req.UserID)

	category := model.CategoryAll
	if req.Category != nil && *req.Category != "" {
		category = model.Category(*req.Category)
	}
	// カテゴリの許可リストは問題登録と同じ基準で適用する（"all"はフィルタなしの番兵値として許可）
	if err := s.validateCategory(category); err != nil {
		return nil, err
	}

	session := &model.StudySession{
		SessionID: uuid.New().String(),
		UserID:    req.UserID,
		Mode:      model.StudyMode(req.Mode),
		Category:  category,
		StartedAt: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, s.db, session); err != nil {
		logger.Error("Error creating study session", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの作成に失敗しました。", "", err)
	}

	logger.Info("Study session created", "session_id", session.SessionID, "mode", string(session.Mode))
	return session, nil
}

func (s *sessionService) validateCategory(category model.Category) error {
	if category == model.CategoryAll {
		return nil
	}
	for _, allowed := range s.cfg.App.Categories {
		if string(category) == allowed {
			return nil
		}
	}
	return model.NewAppError("VALIDATION_ERROR",
		fmt.Sprintf("カテゴリ '%s' は許可されていません。", category),
		"category", model.ErrInvalidInput)
}

func (s *sessionService) UpdateSession(ctx context.Context, sessionID string, req *model.UpdateSessionRequest) (*model.StudySession, error) {
	logger := middleware.GetLogger(ctx).With("session_id", sessionID)

	var updated *model.StudySession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := s.sessionRepo.FindByID(ctx, tx, sessionID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				// 名前指定の更新対象が存在しないのは呼び出し元の誤り。静かに無視しない
				return model.NewAppError("NOT_FOUND", "指定されたセッションが見つかりません。", "session_id", model.ErrNotFound)
			}
			logger.Error("Error finding session in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの更新に失敗しました。", "", err)
		}

		if req.QuestionsAnswered != nil {
			session.QuestionsAnswered = *req.QuestionsAnswered
		}
		if req.CorrectAnswers != nil {
			session.CorrectAnswers = *req.CorrectAnswers
		}
		if req.CompletedAt != nil {
			session.CompletedAt = req.CompletedAt
		}

		if session.CorrectAnswers > session.QuestionsAnswered {
			return model.NewAppError("VALIDATION_ERROR", "正解数は回答数を超えられません。", "correct_answers", model.ErrInvalidInput)
		}

		if err := s.sessionRepo.Update(ctx, tx, session); err != nil {
			logger.Error("Error updating session in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの更新に失敗しました。", "", err)
		}

		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Study session updated",
		"questions_answered", updated.QuestionsAnswered,
		"correct_answers", updated.CorrectAnswers,
		"completed", updated.CompletedAt != nil,
	)
	return updated, nil
}
