// internal/middleware/user.go
package middleware

import (
	"context"
	"net/http"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/webutil"

	"github.com/go-chi/chi/v5"
)

// userCtxKey はコンテキストにユーザーIDを格納するためのキーです。
type userCtxKey struct{}

// ユーザーIDはDBカラム幅 (varchar(64)) に収める
const maxUserIDLength = 64

// UserContextMiddleware はURLパラメータ {user_id} を検証してコンテキストに格納します。
// ユーザーIDは外部の不透明な識別子であり、本サービスはユーザー管理を持ちません。
func UserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userID := chi.URLParam(r, "user_id")
		if userID == "" || len(userID) > maxUserIDLength {
			logger.Warn("Invalid user ID in URL", "user_id", userID)
			appErr := model.NewAppError("INVALID_URL_PARAM", "user_idの形式が正しくありません。", "user_id", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID はユーザーIDを格納した新しいコンテキストを返します。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userCtxKey{}, userID)
}

// GetUserIDFromContext はコンテキストからユーザーIDを取得します。
func GetUserIDFromContext(ctx context.Context) (string, error) {
	value, ok := ctx.Value(userCtxKey{}).(string)
	if !ok || value == "" {
		// ミドルウェアが適用されていない経路から呼ばれた場合の内部エラー
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "コンテキストからユーザー情報を取得できませんでした。", "", model.ErrInternalServer)
	}
	return value, nil
}
