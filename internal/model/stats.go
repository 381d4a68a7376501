// internal/model/stats.go
package model

// CategoryStat はカテゴリ別の集計結果です。
// 回答数0のカテゴリはレスポンスに含めません（「未学習」はキーの欠落で表現）。
type CategoryStat struct {
	Category Category `json:"category"`
	Answered int      `json:"answered"`
	Correct  int      `json:"correct"`
	Accuracy int      `json:"accuracy"` // 0-100 (四捨五入)
}

// UserStats はユーザー統計のレスポンスDTOです。
type UserStats struct {
	TotalAnswered int            `json:"total_answered"`
	TotalCorrect  int            `json:"total_correct"`
	Accuracy      int            `json:"accuracy"` // 全体正答率 0-100 (四捨五入)
	CategoryStats []CategoryStat `json:"category_stats"`
}
