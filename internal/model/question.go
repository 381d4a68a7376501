// internal/model/question.go
package model

import "time"

// Category は問題のカテゴリ（交通法規・標識など）を表します。
// 閉じたenumではなく文字列型 + 定数とし、許可リストは設定ファイル側で管理します。
type Category string

const (
	CategoryLaws    Category = "laws"
	CategorySigns   Category = "signs"
	CategorySafety  Category = "safety"
	CategoryAlcohol Category = "alcohol"

	// CategoryAll はフィルタ専用の番兵値です。Questionのカテゴリとしては保存しません。
	CategoryAll Category = "all"
)

// QuestionOptionCount 選択肢は4択固定
const QuestionOptionCount = 4

// Question は問題集の1問を表します（作成後は不変）
type Question struct {
	QuestionID    string    `gorm:"type:varchar(36);primaryKey" json:"question_id"`
	Seq           int64     `gorm:"not null;uniqueIndex" json:"-"` // 挿入順。sequentialモードの出題順保持用
	Category      Category  `gorm:"type:varchar(32);not null;index" json:"category"`
	QuestionText  string    `gorm:"not null" json:"question_text"`
	Options       []string  `gorm:"serializer:json;not null" json:"options"`
	CorrectAnswer int       `gorm:"not null" json:"correct_answer"` // Optionsへのインデックス (0-3)
	Explanation   string    `gorm:"not null" json:"explanation"`
	Section       *string   `json:"section,omitempty"`    // ハンドブックの章（任意）
	Difficulty    *string   `json:"difficulty,omitempty"` // easy / medium / hard（任意）
	CreatedAt     time.Time `json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// 問題作成リクエストDTO
// CorrectAnswerはインデックス0が有効値のためポインタで受けます（requiredとゼロ値の区別）。
type CreateQuestionRequest struct {
	Category      string   `json:"category" validate:"required"`
	QuestionText  string   `json:"question_text" validate:"required"`
	Options       []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" validate:"required,min=0,max=3"`
	Explanation   string   `json:"explanation" validate:"required"`
	Section       *string  `json:"section,omitempty"`
	Difficulty    *string  `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}
