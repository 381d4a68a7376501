// internal/webutil/validate.go
package webutil

import (
	"errors"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"

	"github.com/go-playground/validator/v10"
)

// ValidateStruct は共有バリデータでDTOを検証し、失敗時は最初のエラーを
// 翻訳済みメッセージのAppErrorとして返します。
func ValidateStruct(dst interface{}) error {
	err := Validator.Struct(dst)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		firstErr := validationErrors[0]
		return model.NewAppError(
			"VALIDATION_ERROR",
			firstErr.Translate(Trans),
			firstErr.Field(),
			model.ErrInvalidInput,
		)
	}
	// バリデーションライブラリ自体のエラーなど、予期せぬエラー
	return err
}
