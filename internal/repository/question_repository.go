// internal/repository/question_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"

	"gorm.io/gorm"
)

// QuestionRepository は問題カタログへのアクセスを提供します。
// カタログは起動時の投入後は読み取り専用として扱います。
type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *model.Question) error
	FindByID(ctx context.Context, db *gorm.DB, questionID string) (*model.Question, error)
	FindByIDs(ctx context.Context, db *gorm.DB, questionIDs []string) ([]*model.Question, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Question, error)
	FindByCategory(ctx context.Context, db *gorm.DB, category model.Category) ([]*model.Question, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}

type gormQuestionRepository struct{}

func NewGormQuestionRepository() QuestionRepository {
	return &gormQuestionRepository{}
}

func (r *gormQuestionRepository) Create(ctx context.Context, tx *gorm.DB, question *model.Question) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(question)
	if result.Error != nil {
		logger.Error("Error creating question in DB",
			"error", result.Error,
			"question_id", question.QuestionID,
			"category", string(question.Category),
		)
		return fmt.Errorf("gormQuestionRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormQuestionRepository) FindByID(ctx context.Context, db *gorm.DB, questionID string) (*model.Question, error) {
	logger := middleware.GetLogger(ctx)
	var question model.Question
	result := db.WithContext(ctx).Where("question_id = ?", questionID).First(&question)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding question by ID in DB",
			"error", result.Error,
			"question_id", questionID,
		)
		return nil, fmt.Errorf("gormQuestionRepository.FindByID: %w", result.Error)
	}
	return &question, nil
}

func (r *gormQuestionRepository) FindByIDs(ctx context.Context, db *gorm.DB, questionIDs []string) ([]*model.Question, error) {
	logger := middleware.GetLogger(ctx)
	if len(questionIDs) == 0 {
		return []*model.Question{}, nil
	}
	var questions []*model.Question
	result := db.WithContext(ctx).Where("question_id IN ?", questionIDs).Find(&questions)
	if result.Error != nil {
		logger.Error("Error finding questions by IDs in DB",
			"error", result.Error,
			"count", len(questionIDs),
		)
		return nil, fmt.Errorf("gormQuestionRepository.FindByIDs: %w", result.Error)
	}
	return questions, nil
}

func (r *gormQuestionRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Question, error) {
	logger := middleware.GetLogger(ctx)
	var questions []*model.Question
	// seq昇順 = 作成順。sequentialモードはこの順序に依存する
	result := db.WithContext(ctx).Order("seq ASC").Find(&questions)
	if result.Error != nil {
		logger.Error("Error finding all questions in DB", "error", result.Error)
		return nil, fmt.Errorf("gormQuestionRepository.FindAll: %w", result.Error)
	}
	return questions, nil
}

func (r *gormQuestionRepository) FindByCategory(ctx context.Context, db *gorm.DB, category model.Category) ([]*model.Question, error) {
	logger := middleware.GetLogger(ctx)
	var questions []*model.Question
	result := db.WithContext(ctx).Where("category = ?", category).Order("seq ASC").Find(&questions)
	if result.Error != nil {
		logger.Error("Error finding questions by category in DB",
			"error", result.Error,
			"category", string(category),
		)
		return nil, fmt.Errorf("gormQuestionRepository.FindByCategory: %w", result.Error)
	}
	return questions, nil
}

func (r *gormQuestionRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Question{}).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting questions in DB", "error", result.Error)
		return 0, fmt.Errorf("gormQuestionRepository.Count: %w", result.Error)
	}
	return count, nil
}
