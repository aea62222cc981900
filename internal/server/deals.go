package server

import (
	"context"
	"fmt"
	"net/http"

	"mortgage_deals/internal/domain/service/search"
	"mortgage_deals/pkg/httpx/reply"
	"mortgage_deals/pkg/httpx/req"
	"mortgage_deals/pkg/rest"
)

type dealSearcher interface {
	Search(ctx context.Context, q search.Query) search.Result
}

type DealServer struct {
	searcher dealSearcher
}

func NewDealServer(searcher dealSearcher) DealServer {
	return DealServer{
		searcher: searcher,
	}
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	q, err := parseDealQuery(r.URL.Query())
	if err != nil {
		return fmt.Errorf("parseDealQuery: %w", err)
	}

	s.reply(r.Context(), w, q)

	return nil
}

func (s DealServer) postV1DealsSearch(w http.ResponseWriter, r *http.Request) error {
	var request rest.DealSearchRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	s.reply(r.Context(), w, newDomainQuery(request))

	return nil
}

func (s DealServer) reply(ctx context.Context, w http.ResponseWriter, q search.Query) {
	result := s.searcher.Search(ctx, q)

	reply.JSON(ctx, w, http.StatusOK, rest.DealsResponse{
		Deals:  newRESTDeals(result.Deals),
		Source: string(result.Tier),
	})
}
