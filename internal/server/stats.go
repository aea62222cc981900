package server

import (
	"context"
	"fmt"
	"net/http"

	"mortgage_deals/internal/domain/entity"
	"mortgage_deals/pkg/httpx/reply"
)

type StatsProvider interface {
	GetStats(ctx context.Context) (entity.Stats, error)
}

type StatsServer struct {
	stats StatsProvider
}

func NewStatsServer(stats StatsProvider) StatsServer {
	return StatsServer{
		stats: stats,
	}
}

func (s StatsServer) getV1Stats(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	stats, err := s.stats.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("stats.GetStats: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTStats(stats))

	return nil
}
