// Package worker triggers ingestion passes on a schedule.
package worker

import (
	"context"

	"mortgage_deals/internal/domain/entity"
)

type Ingester interface {
	RunIngestion(ctx context.Context) []entity.SourceResult
}
