package worker

import (
	"log/slog"

	"github.com/samber/lo"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/pkg/contextx"
	"mortgage_deals/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func summaryAttrs(results []entity.SourceResult) []any {
	failed := lo.CountBy(results, func(r entity.SourceResult) bool {
		return r.Status == entity.RunStatusError
	})

	persisted := lo.SumBy(results, func(r entity.SourceResult) int { return r.Count })

	return []any{
		slog.Int("sources", len(results)),
		slog.Int("failed-sources", failed),
		slog.Int(logx.FieldPersisted, persisted),
	}
}
