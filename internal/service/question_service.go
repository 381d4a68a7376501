// internal/service/question_service.go
package service

import (
	"context"
	"fmt"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/config"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionService は問題カタログの参照と登録を提供します。
type QuestionService interface {
	CreateQuestion(ctx context.Context, req *model.CreateQuestionRequest) (*model.Question, error)
	GetQuestion(ctx context.Context, questionID string) (*model.Question, error)
	// ListQuestions はカテゴリで絞り込んだ一覧を返します。
	// 空文字または番兵値 "all" は全件を意味します（リテラル一致ではない）。
	ListQuestions(ctx context.Context, category model.Category) ([]*model.Question, error)
}

type questionService struct {
	db           *gorm.DB
	questionRepo repository.QuestionRepository
	cfg          *config.Config
}

func NewQuestionService(db *gorm.DB, questionRepo repository.QuestionRepository, cfg *config.Config) QuestionService {
	return &questionService{
		db:           db,
		questionRepo: questionRepo,
		cfg:          cfg,
	}
}

func (s *questionService) CreateQuestion(ctx context.Context, req *model.CreateQuestionRequest) (*model.Question, error) {
	logger := middleware.GetLogger(ctx)

	if err := s.validateQuestion(req); err != nil {
		return nil, err
	}

	var created *model.Question
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// seqは作成順。カタログ投入は起動時かAPI経由の低頻度操作なので
		// トランザクション内のカウントで十分
		count, err := s.questionRepo.Count(ctx, tx)
		if err != nil {
			logger.Error("Error counting questions in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "問題の登録に失敗しました。", "", err)
		}

		question := &model.Question{
			QuestionID:    uuid.New().String(),
			Seq:           count + 1,
			Category:      model.Category(req.Category),
			QuestionText:  req.QuestionText,
			Options:       req.Options,
			CorrectAnswer: *req.CorrectAnswer,
			Explanation:   req.Explanation,
			Section:       req.Section,
			Difficulty:    req.Difficulty,
		}
		if err := s.questionRepo.Create(ctx, tx, question); err != nil {
			logger.Error("Error creating question in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "問題の登録に失敗しました。", "", err)
		}

		created = question
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Question created", "question_id", created.QuestionID, "category", string(created.Category))
	return created, nil
}

func (s *questionService) GetQuestion(ctx context.Context, questionID string) (*model.Question, error) {
	return s.questionRepo.FindByID(ctx, s.db, questionID)
}

func (s *questionService) ListQuestions(ctx context.Context, category model.Category) ([]*model.Question, error) {
	// "all" はリテラルのカテゴリ値ではなくフィルタなしを意味する番兵値
	if category == "" || category == model.CategoryAll {
		return s.questionRepo.FindAll(ctx, s.db)
	}
	// 未知のカテゴリは空の結果に退化させる（エラーにしない）
	return s.questionRepo.FindByCategory(ctx, s.db, category)
}

// validateQuestion は問題定義の構造を検証します。
// 選択肢4件とインデックス範囲はハンドラのvalidatorタグでも弾かれるが、
// シーダーなどAPI以外の呼び出し元のためにサービス層でも強制する。
func (s *questionService) validateQuestion(req *model.CreateQuestionRequest) error {
	if len(req.Options) != model.QuestionOptionCount {
		return model.NewAppError("VALIDATION_ERROR",
			fmt.Sprintf("選択肢は%d件である必要があります。", model.QuestionOptionCount),
			"options", model.ErrInvalidInput)
	}
	if req.CorrectAnswer == nil || *req.CorrectAnswer < 0 || *req.CorrectAnswer >= len(req.Options) {
		return model.NewAppError("VALIDATION_ERROR",
			"正解インデックスが選択肢の範囲外です。",
			"correct_answer", model.ErrInvalidInput)
	}
	if model.Category(req.Category) == model.CategoryAll {
		return model.NewAppError("VALIDATION_ERROR",
			"カテゴリ 'all' はフィルタ専用の値のため問題には指定できません。",
			"category", model.ErrInvalidInput)
	}
	for _, allowed := range s.cfg.App.Categories {
		if req.Category == allowed {
			return nil
		}
	}
	return model.NewAppError("VALIDATION_ERROR",
		fmt.Sprintf("カテゴリ '%s' は許可されていません。", req.Category),
		"category", model.ErrInvalidInput)
}
