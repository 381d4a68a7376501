// internal/model/progress.go
package model

import "time"

// UserProgress はユーザーごと・問題ごとの学習状況を表します。
// (user_id, question_id) の組で一意です。
type UserProgress struct {
	ProgressID      string     `gorm:"type:varchar(36);primaryKey" json:"progress_id"`
	UserID          string     `gorm:"type:varchar(64);not null;index:idx_user_question,unique" json:"user_id"` // 複合ユニークインデックスの一部
	QuestionID      string     `gorm:"type:varchar(36);not null;index:idx_user_question,unique" json:"question_id"`
	IsBookmarked    bool       `gorm:"not null;default:false" json:"is_bookmarked"`
	TimesAnswered   int        `gorm:"not null;default:0" json:"times_answered"`
	TimesCorrect    int        `gorm:"not null;default:0" json:"times_correct"`
	LastAnswered    *time.Time `json:"last_answered"`
	MarkedForReview bool       `gorm:"not null;default:false" json:"marked_for_review"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`

	// 関連 (Preload用)
	Question *Question `gorm:"foreignKey:QuestionID;references:QuestionID" json:"-"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// 進捗部分更新リクエストDTO
// 省略されたフィールドは変更しません（部分マージ）。未知のフィールドはデコード時に拒否されます。
type UpdateProgressRequest struct {
	IsBookmarked    *bool      `json:"is_bookmarked,omitempty"`
	TimesAnswered   *int       `json:"times_answered,omitempty" validate:"omitempty,min=0"`
	TimesCorrect    *int       `json:"times_correct,omitempty" validate:"omitempty,min=0"`
	LastAnswered    *time.Time `json:"last_answered,omitempty"`
	MarkedForReview *bool      `json:"marked_for_review,omitempty"`
}

// 回答送信リクエストDTO
type SubmitAnswerRequest struct {
	SelectedIndex *int `json:"selected_index" validate:"required,min=0,max=3"`
}

// AnswerResult は回答送信の結果（更新後の進捗と正誤）です。
type AnswerResult struct {
	Progress      *UserProgress `json:"progress"`
	IsCorrect     bool          `json:"is_correct"`
	CorrectAnswer int           `json:"correct_answer"`
	Explanation   string        `json:"explanation"`
}
