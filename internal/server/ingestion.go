package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/pkg/errcodes"
	"mortgage_deals/pkg/httpx/reply"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

type ingestionRunner interface {
	RunIngestion(ctx context.Context) []entity.SourceResult
}

type runLister interface {
	ListIngestionRuns(ctx context.Context, limit int) ([]entity.IngestionRun, error)
}

type IngestionServer struct {
	runner ingestionRunner
	runs   runLister
}

func NewIngestionServer(runner ingestionRunner, runs runLister) IngestionServer {
	return IngestionServer{
		runner: runner,
		runs:   runs,
	}
}

// postV1Ingestions runs a pass synchronously. The pass outlives a client
// disconnect so that every source still gets its audit row.
func (s IngestionServer) postV1Ingestions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	results := s.runner.RunIngestion(context.WithoutCancel(ctx))

	reply.JSON(ctx, w, http.StatusOK, newRESTIngestionResults(results))

	return nil
}

func (s IngestionServer) getV1Ingestions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit := defaultRunsLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxRunsLimit {
			return failure.NewInvalidArgumentError(
				fmt.Sprintf("invalid limit %q", raw),
				failure.WithCode(errcodes.InvalidPaging),
				failure.WithDescription(fmt.Sprintf("limit must be between 1 and %d", maxRunsLimit)),
			)
		}

		limit = n
	}

	runs, err := s.runs.ListIngestionRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("runs.ListIngestionRuns: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTIngestionRuns(runs))

	return nil
}
