// internal/service/progress_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressService は進捗レコードの参照・部分更新・回答送信を提供します。
type ProgressService interface {
	GetUserProgress(ctx context.Context, userID string) ([]*model.UserProgress, error)
	GetQuestionProgress(ctx context.Context, userID, questionID string) (*model.UserProgress, error)
	// UpdateProgress は部分マージのupsertです。レコードがなければデフォルト値で作成した上で
	// 指定フィールドのみ上書きします。カウンタの絶対値は呼び出し元が指定します。
	UpdateProgress(ctx context.Context, userID, questionID string, req *model.UpdateProgressRequest) (*model.UserProgress, error)
	// RecordAnswer は回答1件をアトミックに記録します。カウンタの加算をストア境界の
	// トランザクション内で行うため、同一キーへの同時送信でも更新が失われません。
	RecordAnswer(ctx context.Context, userID, questionID string, selectedIndex int) (*model.AnswerResult, error)
	GetBookmarkedQuestions(ctx context.Context, userID string) ([]*model.Question, error)
}

type progressService struct {
	db           *gorm.DB
	progressRepo repository.ProgressRepository
	questionRepo repository.QuestionRepository
}

func NewProgressService(db *gorm.DB, progressRepo repository.ProgressRepository, questionRepo repository.QuestionRepository) ProgressService {
	return &progressService{
		db:           db,
		progressRepo: progressRepo,
		questionRepo: questionRepo,
	}
}

func (s *progressService) GetUserProgress(ctx context.Context, userID string) ([]*model.UserProgress, error) {
	// 未知のユーザーは空の結果に退化させる（エラーにしない）
	return s.progressRepo.FindByUser(ctx, s.db, userID)
}

func (s *progressService) GetQuestionProgress(ctx context.Context, userID, questionID string) (*model.UserProgress, error) {
	return s.progressRepo.FindOne(ctx, s.db, userID, questionID)
}

func (s *progressService) UpdateProgress(ctx context.Context, userID, questionID string, req *model.UpdateProgressRequest) (*model.UserProgress, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "question_id", questionID)

	var updated *model.UserProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 名前指定の更新対象なので問題の存在しない参照は大きな失敗として扱う
		if _, err := s.questionRepo.FindByID(ctx, tx, questionID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "指定された問題が見つかりません。", "question_id", model.ErrNotFound)
			}
			logger.Error("Error checking question existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の更新に失敗しました。", "", err)
		}

		progress, err := s.progressRepo.FindOneForUpdate(ctx, tx, userID, questionID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error finding progress in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の確認中にエラーが発生しました。", "", err)
		}
		isFound := !errors.Is(err, model.ErrNotFound)

		if !isFound {
			// デフォルト値で新規作成してからマージを適用する
			progress = &model.UserProgress{
				ProgressID: uuid.New().String(),
				UserID:     userID,
				QuestionID: questionID,
			}
		}

		applyProgressUpdates(progress, req)

		if err := validateProgressInvariant(progress); err != nil {
			return err
		}

		if !isFound {
			if createErr := s.progressRepo.Create(ctx, tx, progress); createErr != nil {
				logger.Error("Error creating new progress", "error", createErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の作成に失敗しました。", "", createErr)
			}
		} else {
			if updateErr := s.progressRepo.Update(ctx, tx, progress); updateErr != nil {
				logger.Error("Error updating existing progress", "error", updateErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の更新に失敗しました。", "", updateErr)
			}
		}

		updated = progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Progress upserted", "progress_id", updated.ProgressID)
	return updated, nil
}

func (s *progressService) RecordAnswer(ctx context.Context, userID, questionID string, selectedIndex int) (*model.AnswerResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "question_id", questionID)

	var result *model.AnswerResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question, err := s.questionRepo.FindByID(ctx, tx, questionID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "指定された問題が見つかりません。", "question_id", model.ErrNotFound)
			}
			logger.Error("Error finding question for answer", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "回答の記録に失敗しました。", "", err)
		}

		if selectedIndex < 0 || selectedIndex >= len(question.Options) {
			return model.NewAppError("VALIDATION_ERROR", "選択した回答が選択肢の範囲外です。", "selected_index", model.ErrInvalidInput)
		}
		isCorrect := selectedIndex == question.CorrectAnswer

		progress, err := s.progressRepo.FindOneForUpdate(ctx, tx, userID, questionID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error finding progress in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の確認中にエラーが発生しました。", "", err)
		}
		isFound := !errors.Is(err, model.ErrNotFound)

		now := time.Now()
		if !isFound {
			progress = &model.UserProgress{
				ProgressID: uuid.New().String(),
				UserID:     userID,
				QuestionID: questionID,
			}
		}

		// 加算はロック保持中に行う。同一キーへの同時送信はここで直列化される
		progress.TimesAnswered++
		if isCorrect {
			progress.TimesCorrect++
		}
		progress.LastAnswered = &now

		if !isFound {
			if createErr := s.progressRepo.Create(ctx, tx, progress); createErr != nil {
				logger.Error("Error creating progress for answer", "error", createErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "回答の記録に失敗しました。", "", createErr)
			}
		} else {
			if updateErr := s.progressRepo.Update(ctx, tx, progress); updateErr != nil {
				logger.Error("Error updating progress for answer", "error", updateErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "回答の記録に失敗しました。", "", updateErr)
			}
		}

		result = &model.AnswerResult{
			Progress:      progress,
			IsCorrect:     isCorrect,
			CorrectAnswer: question.CorrectAnswer,
			Explanation:   question.Explanation,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Answer recorded",
		"is_correct", result.IsCorrect,
		"times_answered", result.Progress.TimesAnswered,
		"times_correct", result.Progress.TimesCorrect,
	)
	return result, nil
}

func (s *progressService) GetBookmarkedQuestions(ctx context.Context, userID string) ([]*model.Question, error) {
	return s.progressRepo.FindBookmarkedQuestions(ctx, s.db, userID)
}

// applyProgressUpdates は指定されたフィールドのみを上書きします（部分マージ）。
func applyProgressUpdates(progress *model.UserProgress, req *model.UpdateProgressRequest) {
	if req.IsBookmarked != nil {
		progress.IsBookmarked = *req.IsBookmarked
	}
	if req.TimesAnswered != nil {
		progress.TimesAnswered = *req.TimesAnswered
	}
	if req.TimesCorrect != nil {
		progress.TimesCorrect = *req.TimesCorrect
	}
	if req.LastAnswered != nil {
		progress.LastAnswered = req.LastAnswered
	}
	if req.MarkedForReview != nil {
		progress.MarkedForReview = *req.MarkedForReview
	}
}

// validateProgressInvariant はマージ後のレコードがカウンタの不変条件を満たすか検証します。
func validateProgressInvariant(progress *model.UserProgress) error {
	if progress.TimesAnswered < 0 || progress.TimesCorrect < 0 {
		return model.NewAppError("VALIDATION_ERROR", "回答回数・正解回数は0以上である必要があります。", "", model.ErrInvalidInput)
	}
	if progress.TimesCorrect > progress.TimesAnswered {
		return model.NewAppError("VALIDATION_ERROR", "正解回数は回答回数を超えられません。", "times_correct", model.ErrInvalidInput)
	}
	return nil
}
