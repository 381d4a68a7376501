// internal/webutil/request.go
package webutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
)

// DecodeJSONBody はリクエストボディをデコードします。
// 未知のフィールドはバリデーションエラーとして拒否します（認識されたフィールドのみ受け付ける部分更新の前提）。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディがありません。", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return model.NewAppError("VALIDATION_ERROR", "認識できないフィールドが含まれています。", "", model.ErrInvalidInput)
		}
		return model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
	}
	return nil
}
