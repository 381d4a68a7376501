// internal/service/session_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBSession() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for session service testing: " + err.Error())
	}
	return db
}

func strPtr(s string) *string { return &s }

// --- Test CreateSession ---
func Test_sessionService_CreateSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBSession()

	tests := []struct {
		name         string
		req          *model.CreateSessionRequest
		setupMock    func(m *mocks.SessionRepository)
		wantErr      bool
		wantErrIs    error
		wantCategory model.Category
	}{
		{
			name: "正常系: カテゴリ指定ありで作成",
			req: &model.CreateSessionRequest{
				UserID:   "user-1",
				Mode:     "sequential",
				Category: strPtr("signs"),
			},
			setupMock: func(m *mocks.SessionRepository) {
				m.On("Create", ctx, db, mock.AnythingOfType("*model.StudySession")).
					Run(func(args mock.Arguments) {
						s := args.Get(2).(*model.StudySession)
						assert.NotEmpty(t, s.SessionID)
						assert.Equal(t, "user-1", s.UserID)
						assert.Equal(t, model.ModeSequential, s.Mode)
						assert.Equal(t, 0, s.QuestionsAnswered)
						assert.Equal(t, 0, s.CorrectAnswers)
						assert.WithinDuration(t, time.Now(), s.StartedAt, 5*time.Second)
						assert.Nil(t, s.CompletedAt)
					}).Return(nil).Once()
			},
			wantCategory: model.CategorySigns,
		},
		{
			name: "正常系: カテゴリ未指定は 'all' がデフォルト",
			req: &model.CreateSessionRequest{
				UserID: "user-1",
				Mode:   "random",
			},
			setupMock: func(m *mocks.SessionRepository) {
				m.On("Create", ctx, db, mock.AnythingOfType("*model.StudySession")).Return(nil).Once()
			},
			wantCategory: model.CategoryAll,
		},
		{
			name: "正常系: 空文字のカテゴリも 'all' に正規化される",
			req: &model.CreateSessionRequest{
				UserID:   "user-1",
				Mode:     "review",
				Category: strPtr(""),
			},
			setupMock: func(m *mocks.SessionRepository) {
				m.On("Create", ctx, db, mock.AnythingOfType("*model.StudySession")).Return(nil).Once()
			},
			wantCategory: model.CategoryAll,
		},
		{
			name: "異常系: 許可リストにないカテゴリは拒否される",
			req: &model.CreateSessionRequest{
				UserID:   "user-1",
				Mode:     "sequential",
				Category: strPtr("bogus"),
			},
			setupMock: func(m *mocks.SessionRepository) {}, // リポジトリには到達しない
			wantErr:   true,
			wantErrIs: model.ErrInvalidInput,
		},
		{
			name: "異常系: リポジトリでDBエラー",
			req: &model.CreateSessionRequest{
				UserID: "user-1",
				Mode:   "sequential",
			},
			setupMock: func(m *mocks.SessionRepository) {
				m.On("Create", ctx, db, mock.AnythingOfType("*model.StudySession")).
					Return(errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.SessionRepository)
			tt.setupMock(mockRepo)
			sessionService := NewSessionService(db, mockRepo, testConfigQuestion())

			session, err := sessionService.CreateSession(ctx, tt.req)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				require.NotNil(t, session)
				assert.Equal(t, tt.wantCategory, session.Category)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// --- Test UpdateSession ---
func Test_sessionService_UpdateSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBSession()
	sessionID := "session-1"

	existing := func() *model.StudySession {
		return &model.StudySession{
			SessionID:         sessionID,
			UserID:            "user-1",
			Mode:              model.ModeSequential,
			Category:          model.CategoryAll,
			QuestionsAnswered: 5,
			CorrectAnswers:    3,
			StartedAt:         time.Now().Add(-10 * time.Minute),
		}
	}

	t.Run("正常系: カウンタと完了時刻の部分更新", func(t *testing.T) {
		mockRepo := new(mocks.SessionRepository)
		completedAt := time.Now()
		answered := 10
		correct := 8
		mockRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), sessionID).Return(existing(), nil).Once()
		mockRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.StudySession")).
			Run(func(args mock.Arguments) {
				s := args.Get(2).(*model.StudySession)
				assert.Equal(t, 10, s.QuestionsAnswered)
				assert.Equal(t, 8, s.CorrectAnswers)
				require.NotNil(t, s.CompletedAt)
			}).Return(nil).Once()
		sessionService := NewSessionService(db, mockRepo, testConfigQuestion())

		session, err := sessionService.UpdateSession(ctx, sessionID, &model.UpdateSessionRequest{
			QuestionsAnswered: &answered,
			CorrectAnswers:    &correct,
			CompletedAt:       &completedAt,
		})

		require.NoError(t, err)
		assert.Equal(t, 10, session.QuestionsAnswered)
		assert.Equal(t, 8, session.CorrectAnswers)
		mockRepo.AssertExpectations(t)
	})

	t.Run("正常系: 省略フィールドは変更されない", func(t *testing.T) {
		mockRepo := new(mocks.SessionRepository)
		answered := 6
		mockRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), sessionID).Return(existing(), nil).Once()
		mockRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.StudySession")).
			Return(nil).Once()
		sessionService := NewSessionService(db, mockRepo, testConfigQuestion())

		session, err := sessionService.UpdateSession(ctx, sessionID, &model.UpdateSessionRequest{
			QuestionsAnswered: &answered,
		})

		require.NoError(t, err)
		assert.Equal(t, 6, session.QuestionsAnswered)
		assert.Equal(t, 3, session.CorrectAnswers) // 既存値のまま
		assert.Nil(t, session.CompletedAt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("異常系: 正解数が回答数を超える更新は拒否される", func(t *testing.T) {
		mockRepo := new(mocks.SessionRepository)
		correct := 99
		mockRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), sessionID).Return(existing(), nil).Once()
		sessionService := NewSessionService(db, mockRepo, testConfigQuestion())

		session, err := sessionService.UpdateSession(ctx, sessionID, &model.UpdateSessionRequest{
			CorrectAnswers: &correct,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Nil(t, session)
		mockRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないセッションはNOT_FOUND（静かに無視しない）", func(t *testing.T) {
		mockRepo := new(mocks.SessionRepository)
		mockRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), "missing").
			Return(nil, model.ErrNotFound).Once()
		sessionService := NewSessionService(db, mockRepo, testConfigQuestion())

		answered := 1
		session, err := sessionService.UpdateSession(ctx, "missing", &model.UpdateSessionRequest{
			QuestionsAnswered: &answered,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Detail.Code)
		assert.Nil(t, session)
		mockRepo.AssertExpectations(t)
	})
}
