// internal/repository/session_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"

	"gorm.io/gorm"
)

// SessionRepository は学習セッション（監査記録）へのアクセスを提供します。
type SessionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, session *model.StudySession) error
	FindByID(ctx context.Context, db *gorm.DB, sessionID string) (*model.StudySession, error)
	Update(ctx context.Context, tx *gorm.DB, session *model.StudySession) error
}

type gormSessionRepository struct{}

func NewGormSessionRepository() SessionRepository {
	return &gormSessionRepository{}
}

func (r *gormSessionRepository) Create(ctx context.Context, tx *gorm.DB, session *model.StudySession) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(session)
	if result.Error != nil {
		logger.Error("Error creating study session in DB",
			"error", result.Error,
			"user_id", session.UserID,
		)
		return fmt.Errorf("gormSessionRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormSessionRepository) FindByID(ctx context.Context, db *gorm.DB, sessionID string) (*model.StudySession, error) {
	var session model.StudySession
	result := db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormSessionRepository.FindByID: %w", result.Error)
	}
	return &session, nil
}

func (r *gormSessionRepository) Update(ctx context.Context, tx *gorm.DB, session *model.StudySession) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(session).
		Select("QuestionsAnswered", "CorrectAnswers", "CompletedAt").
		Updates(session)
	if result.Error != nil {
		logger.Error("Error updating study session in DB",
			"error", result.Error,
			"session_id", session.SessionID,
		)
		return fmt.Errorf("gormSessionRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
