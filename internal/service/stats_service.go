// internal/service/stats_service.go
package service

import (
	"context"
	"math"
	"sort"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/middleware"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/repository"

	"gorm.io/gorm"
)

// StatsService はユーザー統計のオンデマンド集計を提供します。
// キャッシュは持たず、毎回ストアの現在の状態から再計算します。
type StatsService interface {
	ComputeStats(ctx context.Context, userID string) (*model.UserStats, error)
}

type statsService struct {
	db           *gorm.DB
	progressRepo repository.ProgressRepository
	questionRepo repository.QuestionRepository
}

func NewStatsService(db *gorm.DB, progressRepo repository.ProgressRepository, questionRepo repository.QuestionRepository) StatsService {
	return &statsService{
		db:           db,
		progressRepo: progressRepo,
		questionRepo: questionRepo,
	}
}

func (s *statsService) ComputeStats(ctx context.Context, userID string) (*model.UserStats, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	progresses, err := s.progressRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to find progress records for stats", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "統計の集計に失敗しました。", "", err)
	}

	stats := &model.UserStats{
		CategoryStats: []model.CategoryStat{},
	}

	// 合計は全レコードから無条件に算出する。カテゴリ内訳は問題の解決に成功した
	// レコードのみが対象（参照切れレコードは合計にだけ寄与する非対称を保つ）
	questionIDs := make([]string, 0, len(progresses))
	for _, p := range progresses {
		stats.TotalAnswered += p.TimesAnswered
		stats.TotalCorrect += p.TimesCorrect
		questionIDs = append(questionIDs, p.QuestionID)
	}

	questions, err := s.questionRepo.FindByIDs(ctx, s.db, questionIDs)
	if err != nil {
		logger.Error("Failed to resolve questions for stats", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "統計の集計に失敗しました。", "", err)
	}
	categoryByID := make(map[string]model.Category, len(questions))
	for _, q := range questions {
		categoryByID[q.QuestionID] = q.Category
	}

	type bucket struct {
		answered int
		correct  int
	}
	buckets := make(map[model.Category]*bucket)
	for _, p := range progresses {
		category, ok := categoryByID[p.QuestionID]
		if !ok {
			// 参照先の問題が存在しない。カテゴリ集計からは除外する
			continue
		}
		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
		}
		b.answered += p.TimesAnswered
		b.correct += p.TimesCorrect
	}

	for category, b := range buckets {
		// 回答数0のカテゴリ（ブックマークのみ等）は出力しない
		if b.answered == 0 {
			continue
		}
		stats.CategoryStats = append(stats.CategoryStats, model.CategoryStat{
			Category: category,
			Answered: b.answered,
			Correct:  b.correct,
			Accuracy: roundPercent(b.correct, b.answered),
		})
	}
	// mapの走査順に依存しない安定した出力にする
	sort.Slice(stats.CategoryStats, func(i, j int) bool {
		return stats.CategoryStats[i].Category < stats.CategoryStats[j].Category
	})

	stats.Accuracy = roundPercent(stats.TotalCorrect, stats.TotalAnswered)

	logger.Info("Stats computed",
		"total_answered", stats.TotalAnswered,
		"total_correct", stats.TotalCorrect,
		"categories", len(stats.CategoryStats),
	)
	return stats, nil
}

// roundPercent は正答率(0-100)を四捨五入で返します。answeredが0なら0です。
func roundPercent(correct, answered int) int {
	if answered <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(answered)))
}
