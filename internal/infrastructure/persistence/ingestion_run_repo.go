package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"mortgage_deals/internal/domain"
	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/pkg/errcodes"
)

// IngestionRunRepository is the append-only audit log. Rows are never
// updated or deleted.
type IngestionRunRepository struct {
	db *sqlx.DB
}

func NewIngestionRunRepository(db *sqlx.DB) *IngestionRunRepository {
	return &IngestionRunRepository{db: db}
}

func (r *IngestionRunRepository) RecordIngestionRun(ctx context.Context, run entity.IngestionRun) error {
	query := `
		INSERT INTO ingestion_runs (pass_id, source, status, deals_scraped, error_message, created_at)
		VALUES (:pass_id, :source, :status, :deals_scraped, :error_message, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromRun(run)); err != nil {
		return domain.WrapError(err, errcodes.IngestionRunFailed, "failed to record ingestion run")
	}

	return nil
}

// ListIngestionRuns returns the newest runs first.
func (r *IngestionRunRepository) ListIngestionRuns(ctx context.Context, limit int) ([]entity.IngestionRun, error) {
	query := `
		SELECT id, pass_id, source, status, deals_scraped, error_message, created_at
		FROM ingestion_runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	var schemas []runSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list ingestion runs")
	}

	runs := make([]entity.IngestionRun, 0, len(schemas))
	for i := range schemas {
		runs = append(runs, schemas[i].toDomain())
	}

	return runs, nil
}
