// internal/seed/seed.go
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/model"
	"github.com/jeffdedios/CA-Drivers-Test-Prep/internal/service"
)

// LoadQuestions は問題カタログ(JSON)を読み込んで登録します。
// API経由の登録と同じバリデーションを通すため、サービスを経由します。
// カタログが既に投入済みの場合は何もしません（起動時の一度きりの投入）。
func LoadQuestions(ctx context.Context, path string, questionService service.QuestionService, logger *slog.Logger) (int, error) {
	if path == "" {
		logger.Info("No seed file configured, skipping catalog seeding")
		return 0, nil
	}

	existing, err := questionService.ListQuestions(ctx, model.CategoryAll)
	if err != nil {
		return 0, fmt.Errorf("seed.LoadQuestions: checking existing catalog: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Question catalog already populated, skipping seeding", "count", len(existing))
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("seed.LoadQuestions: reading seed file: %w", err)
	}

	var requests []model.CreateQuestionRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return 0, fmt.Errorf("seed.LoadQuestions: parsing seed file: %w", err)
	}

	imported := 0
	for i := range requests {
		if _, err := questionService.CreateQuestion(ctx, &requests[i]); err != nil {
			// 1件の不正データで起動を止めない。スキップして残りを投入する
			logger.Warn("Skipping invalid seed question",
				"index", i,
				"error", err,
			)
			continue
		}
		imported++
	}

	logger.Info("Question catalog seeded", "imported", imported, "skipped", len(requests)-imported)
	return imported, nil
}
