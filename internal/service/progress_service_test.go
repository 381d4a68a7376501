// internal/service/progress_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 ---
// 進捗サービスは実リポジトリ + インメモリDBで検証する（トランザクション込みの統合テスト）
func setupTestDBProgress(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database for progress service testing")
	require.NoError(t, repository.Migrate(db), "failed to migrate database for progress service testing")
	clearTablesProgress(t, db)
	return db
}

func clearTablesProgress(t *testing.T, db *gorm.DB) {
	require.NoError(t, db.Exec("DELETE FROM user_progress").Error)
	require.NoError(t, db.Exec("DELETE FROM questions").Error)
	require.NoError(t, db.Exec("DELETE FROM study_sessions").Error)
}

func newProgressServiceForTest(db *gorm.DB) ProgressService {
	return NewProgressService(db, repository.NewGormProgressRepository(), repository.NewGormQuestionRepository())
}

// seedQuestionProgress は検証用の問題を直接DBに投入します。
func seedQuestionProgress(t *testing.T, db *gorm.DB, seq int64, category model.Category, correctAnswer int) *model.Question {
	q := &model.Question{
		QuestionID:    uuid.New().String(),
		Seq:           seq,
		Category:      category,
		QuestionText:  "test question",
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: correctAnswer,
		Explanation:   "test explanation",
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func boolPtr(b bool) *bool { return &b }

// --- Test RecordAnswer ---
func Test_progressService_RecordAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 初回回答でレコードが作成される", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		question := seedQuestionProgress(t, db, 1, model.CategoryLaws, 2)

		result, err := progressService.RecordAnswer(ctx, "user-1", question.QuestionID, 2)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsCorrect)
		assert.Equal(t, 2, result.CorrectAnswer)
		assert.Equal(t, "test explanation", result.Explanation)
		assert.Equal(t, 1, result.Progress.TimesAnswered)
		assert.Equal(t, 1, result.Progress.TimesCorrect)
		require.NotNil(t, result.Progress.LastAnswered)
		assert.WithinDuration(t, time.Now(), *result.Progress.LastAnswered, 5*time.Second)

		// 永続化されていることを確認
		var stored model.UserProgress
		require.NoError(t, db.Where("user_id = ? AND question_id = ?", "user-1", question.QuestionID).First(&stored).Error)
		assert.Equal(t, 1, stored.TimesAnswered)
		assert.Equal(t, 1, stored.TimesCorrect)
	})

	t.Run("正常系: 2回目以降の回答はカウンタに加算される", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		question := seedQuestionProgress(t, db, 1, model.CategoryLaws, 2)

		_, err := progressService.RecordAnswer(ctx, "user-1", question.QuestionID, 2)
		require.NoError(t, err)

		// 2回目は不正解
		result, err := progressService.RecordAnswer(ctx, "user-1", question.QuestionID, 0)

		require.NoError(t, err)
		assert.False(t, result.IsCorrect)
		assert.Equal(t, 2, result.Progress.TimesAnswered)
		assert.Equal(t, 1, result.Progress.TimesCorrect)

		// レコードは1件のまま（upsert）
		var count int64
		require.NoError(t, db.Model(&model.UserProgress{}).Where("user_id = ?", "user-1").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("正常系: ブックマーク済みレコードへの回答はブックマークを保持する", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		question := seedQuestionProgress(t, db, 1, model.CategorySigns, 0)

		_, err := progressService.UpdateProgress(ctx, "user-1", question.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})
		require.NoError(t, err)

		result, err := progressService.RecordAnswer(ctx, "user-1", question.QuestionID, 0)

		require.NoError(t, err)
		assert.True(t, result.Progress.IsBookmarked)
		assert.Equal(t, 1, result.Progress.TimesAnswered)
	})

	t.Run("異常系: 存在しない問題への回答はNOT_FOUND", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)

		result, err := progressService.RecordAnswer(ctx, "user-1", "missing-question", 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Nil(t, result)
	})

	t.Run("異常系: 選択インデックスが範囲外", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		question := seedQuestionProgress(t, db, 1, model.CategoryLaws, 2)

		result, err := progressService.RecordAnswer(ctx, "user-1", question.QuestionID, 4)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Nil(t, result)

		// 無効な回答はレコードを作らない
		var count int64
		require.NoError(t, db.Model(&model.UserProgress{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}

// --- Test UpdateProgress ---
func Test_progressService_UpdateProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: レコードがなければデフォルト値で作成される", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		question := seedQuestionProgress(t, db, 1, model.CategoryLaws, 0)

		progress, err := progressService.UpdateProgress(ctx, "user-1", question.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})

		require.NoError(t, err)
		require.NotNil(t, progress)
		assert.True(t, progress.IsBookmarked)
		// 指定しなかったフィールドはデフォルト値のまま
		assert.Equal(t, 0, progress.TimesAnswered)
		assert.Equal(t, 0, progress.TimesCorrect)
		assert.Nil(t, progress.LastAnswered)
		assert.False(t, progress.MarkedForReview)
	})

	t.Run("正常系: 部分マージは省略フィールドを変更しない", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		question := seedQuestionProgress(t, db, 1, model.CategoryLaws, 0)

		// 回答履歴を作っておく (3回中2回正解)
		_, err := progressService.RecordAnswer(ctx, "user-1", question.QuestionID, 0)
		require.NoError(t, err)
		_, err = progressService.RecordAnswer(ctx, "user-1", question.QuestionID, 0)
		require.NoError(t, err)
		_, err = progressService.RecordAnswer(ctx, "user-1", question.QuestionID, 1)
		require.NoError(t, err)

		// 復習フラグのみ更新
		progress, err := progressService.UpdateProgress(ctx, "user-1", question.QuestionID,
			&model.UpdateProgressRequest{MarkedForReview: boolPtr(true)})

		require.NoError(t, err)
		assert.True(t, progress.MarkedForReview)
		assert.Equal(t, 3, progress.TimesAnswered)
		assert.Equal(t, 2, progress.TimesCorrect)
		assert.NotNil(t, progress.LastAnswered)
	})

	t.Run("正常系: ブックマークの再設定は冪等", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		question := seedQuestionProgress(t, db, 1, model.CategorySigns, 0)

		_, err := progressService.UpdateProgress(ctx, "user-1", question.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})
		require.NoError(t, err)
		progress, err := progressService.UpdateProgress(ctx, "user-1", question.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})

		require.NoError(t, err)
		assert.True(t, progress.IsBookmarked)

		var count int64
		require.NoError(t, db.Model(&model.UserProgress{}).Where("user_id = ?", "user-1").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("正常系: ブックマーク解除でfalseが永続化される", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		question := seedQuestionProgress(t, db, 1, model.CategorySigns, 0)

		_, err := progressService.UpdateProgress(ctx, "user-1", question.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})
		require.NoError(t, err)
		progress, err := progressService.UpdateProgress(ctx, "user-1", question.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(false)})

		require.NoError(t, err)
		assert.False(t, progress.IsBookmarked)

		var stored model.UserProgress
		require.NoError(t, db.Where("user_id = ?", "user-1").First(&stored).Error)
		assert.False(t, stored.IsBookmarked)
	})

	t.Run("異常系: 正解回数が回答回数を超える更新は拒否される", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		question := seedQuestionProgress(t, db, 1, model.CategoryLaws, 0)

		answered := 1
		correct := 5
		progress, err := progressService.UpdateProgress(ctx, "user-1", question.QuestionID,
			&model.UpdateProgressRequest{TimesAnswered: &answered, TimesCorrect: &correct})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Nil(t, progress)
	})

	t.Run("異常系: 存在しない問題への更新はNOT_FOUND", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)

		progress, err := progressService.UpdateProgress(ctx, "user-1", "missing-question",
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Nil(t, progress)
	})
}

// --- Test GetUserProgress / GetBookmarkedQuestions ---
func Test_progressService_GetUserProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 未知のユーザーは空の結果（エラーにしない）", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)

		progresses, err := progressService.GetUserProgress(ctx, "nobody")

		require.NoError(t, err)
		assert.Empty(t, progresses)
	})

	t.Run("正常系: 自分のレコードのみ返る", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		q1 := seedQuestionProgress(t, db, 1, model.CategoryLaws, 0)
		q2 := seedQuestionProgress(t, db, 2, model.CategorySigns, 0)

		_, err := progressService.RecordAnswer(ctx, "user-1", q1.QuestionID, 0)
		require.NoError(t, err)
		_, err = progressService.RecordAnswer(ctx, "user-2", q2.QuestionID, 0)
		require.NoError(t, err)

		progresses, err := progressService.GetUserProgress(ctx, "user-1")

		require.NoError(t, err)
		require.Len(t, progresses, 1)
		assert.Equal(t, q1.QuestionID, progresses[0].QuestionID)
	})
}

func Test_progressService_GetBookmarkedQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: ブックマーク済みの問題のみseq順に返る", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		q1 := seedQuestionProgress(t, db, 1, model.CategoryLaws, 0)
		q2 := seedQuestionProgress(t, db, 2, model.CategorySigns, 0)
		q3 := seedQuestionProgress(t, db, 3, model.CategorySafety, 0)

		// q3, q1の順にブックマーク。q2は回答のみ
		_, err := progressService.UpdateProgress(ctx, "user-1", q3.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})
		require.NoError(t, err)
		_, err = progressService.UpdateProgress(ctx, "user-1", q1.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})
		require.NoError(t, err)
		_, err = progressService.RecordAnswer(ctx, "user-1", q2.QuestionID, 0)
		require.NoError(t, err)

		// 他ユーザーのブックマークは混ざらない
		_, err = progressService.UpdateProgress(ctx, "user-2", q2.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})
		require.NoError(t, err)

		questions, err := progressService.GetBookmarkedQuestions(ctx, "user-1")

		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, q1.QuestionID, questions[0].QuestionID)
		assert.Equal(t, q3.QuestionID, questions[1].QuestionID)
	})

	t.Run("正常系: 参照先の問題が消えたブックマークは結果から除外される", func(t *testing.T) {
		db := setupTestDBProgress(t)
		progressService := newProgressServiceForTest(db)
		q1 := seedQuestionProgress(t, db, 1, model.CategoryLaws, 0)
		q2 := seedQuestionProgress(t, db, 2, model.CategorySigns, 0)

		_, err := progressService.UpdateProgress(ctx, "user-1", q1.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})
		require.NoError(t, err)
		_, err = progressService.UpdateProgress(ctx, "user-1", q2.QuestionID,
			&model.UpdateProgressRequest{IsBookmarked: boolPtr(true)})
		require.NoError(t, err)

		// q2の問題行を直接削除して参照切れを作る
		require.NoError(t, db.Exec("DELETE FROM questions WHERE question_id = ?", q2.QuestionID).Error)

		questions, err := progressService.GetBookmarkedQuestions(ctx, "user-1")

		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, q1.QuestionID, questions[0].QuestionID)
	})
}
