package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mortgage_deals/pkg/httpx/reply"
	"mortgage_deals/pkg/logx"
	"mortgage_deals/pkg/middlewarex"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/deals", func(r chi.Router) {
			r.Get("/", handler(s.getV1Deals))
			r.Post("/search", handler(s.postV1DealsSearch))
		})

		r.Route("/ingestions", func(r chi.Router) {
			r.Get("/", handler(s.getV1Ingestions))
			r.Post("/", handler(s.postV1Ingestions))
		})

		r.Get("/stats", handler(s.getV1Stats))
	})
}

// NewRouter wires the middleware chain in front of the routes.
func NewRouter(s Server, logFieldMaxLen int) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
