// internal/model/session.go
package model

import "time"

// StudyMode は学習セッションの出題モードです。
type StudyMode string

const (
	ModeSequential StudyMode = "sequential"
	ModeRandom     StudyMode = "random"
	ModeReview     StudyMode = "review"
)

// StudySession は学習セッションの監査記録です。
// 統計はUserProgressから導出するため、セッションは正確性に寄与しません。
type StudySession struct {
	SessionID         string     `gorm:"type:varchar(36);primaryKey" json:"session_id"`
	UserID            string     `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Mode              StudyMode  `gorm:"type:varchar(16);not null" json:"mode"`
	Category          Category   `gorm:"type:varchar(32);not null" json:"category"` // フィルタなしは "all"
	QuestionsAnswered int        `gorm:"not null;default:0" json:"questions_answered"`
	CorrectAnswers    int        `gorm:"not null;default:0" json:"correct_answers"`
	StartedAt         time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

// セッション作成リクエストDTO
type CreateSessionRequest struct {
	UserID   string  `json:"user_id" validate:"required"`
	Mode     string  `json:"mode" validate:"required,oneof=sequential random review"`
	Category *string `json:"category,omitempty"`
}

// セッション部分更新リクエストDTO
type UpdateSessionRequest struct {
	QuestionsAnswered *int       `json:"questions_answered,omitempty" validate:"omitempty,min=0"`
	CorrectAnswers    *int       `json:"correct_answers,omitempty" validate:"omitempty,min=0"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}
