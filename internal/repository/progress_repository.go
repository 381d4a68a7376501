// internal/repository/progress_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository は進捗レコードへのアクセスを提供します。
type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error // トランザクション対応
	FindOne(ctx context.Context, db *gorm.DB, userID, questionID string) (*model.UserProgress, error)
	// FindOneForUpdate は行ロックを取得して検索します。回答送信の read-modify-write を
	// 直列化するために、必ずトランザクション内で呼び出します。
	FindOneForUpdate(ctx context.Context, tx *gorm.DB, userID, questionID string) (*model.UserProgress, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID string) ([]*model.UserProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error // トランザクション対応
	// FindBookmarkedQuestions はブックマーク済みレコードをquestionsにJOINして解決済みの
	// Questionを返します。参照先が存在しないレコードはJOINで自然に除外されます。
	FindBookmarkedQuestions(ctx context.Context, db *gorm.DB, userID string) ([]*model.Question, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(progress)
	if result.Error != nil {
		// (user_id, question_id) の複合ユニーク制約違反もここに来る
		logger.Error("Error creating progress in DB",
			"error", result.Error,
			"user_id", progress.UserID,
			"question_id", progress.QuestionID,
		)
		return fmt.Errorf("gormProgressRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) FindOne(ctx context.Context, db *gorm.DB, userID, questionID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	result := db.WithContext(ctx).Where("user_id = ? AND question_id = ?", userID, questionID).First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormProgressRepository.FindOne: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) FindOneForUpdate(ctx context.Context, tx *gorm.DB, userID, questionID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	query := tx.WithContext(ctx)
	// SQLiteはSELECT ... FOR UPDATEをサポートしない（単一ライターのため不要）。
	// PostgreSQLでは行ロックで同一キーへの同時送信を直列化する。
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	result := query.Where("user_id = ? AND question_id = ?", userID, questionID).First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormProgressRepository.FindOneForUpdate: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) FindByUser(ctx context.Context, db *gorm.DB, userID string) ([]*model.UserProgress, error) {
	logger := middleware.GetLogger(ctx)
	var progresses []*model.UserProgress
	result := db.WithContext(ctx).Where("user_id = ?", userID).Find(&progresses)
	if result.Error != nil {
		logger.Error("Error finding progress by user in DB",
			"error", result.Error,
			"user_id", userID,
		)
		return nil, fmt.Errorf("gormProgressRepository.FindByUser: %w", result.Error)
	}
	return progresses, nil
}

func (r *gormProgressRepository) Update(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error {
	logger := middleware.GetLogger(ctx)
	// ゼロ値 (false, 0) への更新も反映するためSelectでカラムを明示する
	result := tx.WithContext(ctx).Model(progress).
		Select("IsBookmarked", "TimesAnswered", "TimesCorrect", "LastAnswered", "MarkedForReview").
		Updates(progress)
	if result.Error != nil {
		logger.Error("Error updating progress in DB",
			"error", result.Error,
			"progress_id", progress.ProgressID,
		)
		return fmt.Errorf("gormProgressRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormProgressRepository) FindBookmarkedQuestions(ctx context.Context, db *gorm.DB, userID string) ([]*model.Question, error) {
	logger := middleware.GetLogger(ctx)
	var questions []*model.Question
	result := db.WithContext(ctx).Model(&model.Question{}).
		Joins("JOIN user_progress ON user_progress.question_id = questions.question_id").
		Where("user_progress.user_id = ? AND user_progress.is_bookmarked = ?", userID, true).
		Order("questions.seq ASC").
		Find(&questions)
	if result.Error != nil {
		logger.Error("Error finding bookmarked questions in DB",
			"error", result.Error,
			"user_id", userID,
		)
		return nil, fmt.Errorf("gormProgressRepository.FindBookmarkedQuestions: %w", result.Error)
	}
	return questions, nil
}
