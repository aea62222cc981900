package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"mortgage_deals/pkg/contextx"
	"mortgage_deals/pkg/middlewarex"
)

func TestTraceIDAndRecovery(t *testing.T) {
	testCases := []struct {
		name        string
		headerTrace string
		handler     http.HandlerFunc
		statusCode  int
	}{
		{
			name:        "Incoming trace id is kept",
			headerTrace: "cv1abc",
			handler: func(w http.ResponseWriter, r *http.Request) {
				traceID, err := contextx.TraceIDFromContext(r.Context())
				if err != nil || traceID.String() != "cv1abc" {
					w.WriteHeader(http.StatusTeapot)
					return
				}
				w.WriteHeader(http.StatusOK)
			},
			statusCode: http.StatusOK,
		},
		{
			name:        "Panic becomes internal error",
			headerTrace: "cv1def",
			handler: func(http.ResponseWriter, *http.Request) {
				panic("nil filter")
			},
			statusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			h := middlewarex.TraceID(middlewarex.Recovery(tc.handler))

			req := httptest.NewRequest(http.MethodGet, "/v1/deals", http.NoBody)
			req.Header.Set("X-Trace-Id", tc.headerTrace)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			rq.Equal(tc.statusCode, w.Code)
			rq.Equal(tc.headerTrace, w.Header().Get("X-Trace-Id"))

			if tc.statusCode == http.StatusInternalServerError {
				rq.Contains(w.Body.String(), `"supportId":"`+tc.headerTrace+`"`)
			}
		})
	}
}

func TestTraceIDGenerated(t *testing.T) {
	rq := require.New(t)

	h := middlewarex.TraceID(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/stats", http.NoBody))

	rq.Equal(http.StatusNoContent, w.Code)
	rq.Len(w.Header().Get("X-Trace-Id"), 20)
}
