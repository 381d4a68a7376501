// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "ca-drivers-test-prep"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort = ":8080"
	DefaultLogLevel   = "info"
)

// DefaultCategories はCAドライバーズハンドブック由来の初期カテゴリです。
func DefaultCategories() []string {
	return []string{"laws", "signs", "safety", "alcohol"}
}
