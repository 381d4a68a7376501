// internal/service/stats_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBStats() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for stats service testing: " + err.Error())
	}
	return db
}

func Test_statsService_ComputeStats(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBStats()
	userID := "user-1"

	tests := []struct {
		name      string
		setupMock func(progRepo *mocks.ProgressRepository, questionRepo *mocks.QuestionRepository)
		wantErr   bool
		want      *model.UserStats
	}{
		{
			name: "正常系: 進捗がないユーザーはゼロ統計",
			setupMock: func(progRepo *mocks.ProgressRepository, questionRepo *mocks.QuestionRepository) {
				progRepo.On("FindByUser", ctx, db, userID).Return([]*model.UserProgress{}, nil).Once()
				questionRepo.On("FindByIDs", ctx, db, []string{}).Return([]*model.Question{}, nil).Once()
			},
			want: &model.UserStats{
				TotalAnswered: 0,
				TotalCorrect:  0,
				Accuracy:      0,
				CategoryStats: []model.CategoryStat{},
			},
		},
		{
			name: "正常系: カテゴリ別に集計され正答率は四捨五入される",
			setupMock: func(progRepo *mocks.ProgressRepository, questionRepo *mocks.QuestionRepository) {
				progresses := []*model.UserProgress{
					{QuestionID: "q1", TimesAnswered: 2, TimesCorrect: 1},  // laws: 50%
					{QuestionID: "q2", TimesAnswered: 1, TimesCorrect: 0},  // laws
					{QuestionID: "q3", TimesAnswered: 3, TimesCorrect: 2},  // signs: 67% (四捨五入)
				}
				progRepo.On("FindByUser", ctx, db, userID).Return(progresses, nil).Once()
				questionRepo.On("FindByIDs", ctx, db, []string{"q1", "q2", "q3"}).Return([]*model.Question{
					{QuestionID: "q1", Category: model.CategoryLaws},
					{QuestionID: "q2", Category: model.CategoryLaws},
					{QuestionID: "q3", Category: model.CategorySigns},
				}, nil).Once()
			},
			want: &model.UserStats{
				TotalAnswered: 6,
				TotalCorrect:  3,
				Accuracy:      50,
				CategoryStats: []model.CategoryStat{
					{Category: model.CategoryLaws, Answered: 3, Correct: 1, Accuracy: 33},
					{Category: model.CategorySigns, Answered: 3, Correct: 2, Accuracy: 67},
				},
			},
		},
		{
			name: "正常系: 参照切れレコードは合計に含まれカテゴリ内訳から除外される",
			setupMock: func(progRepo *mocks.ProgressRepository, questionRepo *mocks.QuestionRepository) {
				progresses := []*model.UserProgress{
					{QuestionID: "q1", TimesAnswered: 2, TimesCorrect: 2},
					{QuestionID: "gone", TimesAnswered: 4, TimesCorrect: 1}, // 問題が存在しない
				}
				progRepo.On("FindByUser", ctx, db, userID).Return(progresses, nil).Once()
				questionRepo.On("FindByIDs", ctx, db, []string{"q1", "gone"}).Return([]*model.Question{
					{QuestionID: "q1", Category: model.CategorySafety},
				}, nil).Once()
			},
			want: &model.UserStats{
				TotalAnswered: 6,
				TotalCorrect:  3,
				Accuracy:      50,
				CategoryStats: []model.CategoryStat{
					{Category: model.CategorySafety, Answered: 2, Correct: 2, Accuracy: 100},
				},
			},
		},
		{
			name: "正常系: 回答数0のカテゴリ（ブックマークのみ）は内訳に出ない",
			setupMock: func(progRepo *mocks.ProgressRepository, questionRepo *mocks.QuestionRepository) {
				progresses := []*model.UserProgress{
					{QuestionID: "q1", TimesAnswered: 1, TimesCorrect: 1},
					{QuestionID: "q2", IsBookmarked: true}, // 回答履歴なし
				}
				progRepo.On("FindByUser", ctx, db, userID).Return(progresses, nil).Once()
				questionRepo.On("FindByIDs", ctx, db, []string{"q1", "q2"}).Return([]*model.Question{
					{QuestionID: "q1", Category: model.CategoryLaws},
					{QuestionID: "q2", Category: model.CategoryAlcohol},
				}, nil).Once()
			},
			want: &model.UserStats{
				TotalAnswered: 1,
				TotalCorrect:  1,
				Accuracy:      100,
				CategoryStats: []model.CategoryStat{
					{Category: model.CategoryLaws, Answered: 1, Correct: 1, Accuracy: 100},
				},
			},
		},
		{
			name: "異常系: 進捗取得でDBエラー",
			setupMock: func(progRepo *mocks.ProgressRepository, questionRepo *mocks.QuestionRepository) {
				progRepo.On("FindByUser", ctx, db, userID).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
		},
		{
			name: "異常系: 問題解決でDBエラー",
			setupMock: func(progRepo *mocks.ProgressRepository, questionRepo *mocks.QuestionRepository) {
				progRepo.On("FindByUser", ctx, db, userID).Return([]*model.UserProgress{
					{QuestionID: "q1", TimesAnswered: 1, TimesCorrect: 1},
				}, nil).Once()
				questionRepo.On("FindByIDs", ctx, db, []string{"q1"}).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProgRepo := new(mocks.ProgressRepository)
			mockQuestionRepo := new(mocks.QuestionRepository)
			tt.setupMock(mockProgRepo, mockQuestionRepo)
			statsService := NewStatsService(db, mockProgRepo, mockQuestionRepo)

			stats, err := statsService.ComputeStats(ctx, userID)

			if tt.wantErr {
				require.Error(t, err)
				var appErr *model.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, "INTERNAL_SERVER_ERROR", appErr.Detail.Code)
				assert.Nil(t, stats)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, stats)
			}

			mockProgRepo.AssertExpectations(t)
			mockQuestionRepo.AssertExpectations(t)
		})
	}
}

func Test_roundPercent(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		answered int
		want     int
	}{
		{"ちょうど50%", 1, 2, 50},
		{"33.33%は33に切り捨て方向へ丸め", 1, 3, 33},
		{"66.67%は67に切り上げ方向へ丸め", 2, 3, 67},
		{"0.5%は四捨五入で1", 1, 200, 1},
		{"全問正解は100", 4, 4, 100},
		{"回答0は0（ゼロ除算しない）", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundPercent(tt.correct, tt.answered))
		})
	}
}
