package middlewarex

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"mortgage_deals/pkg/httpx/reply"
	"mortgage_deals/pkg/logx"
)

// Recovery turns a handler panic into a 500 with the regular error body, so
// the caller still gets a support id to quote.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger(ctx).Error(
					"panic in handler",
					slog.Any(logx.FieldError, rec),
					slog.String(logx.FieldStack, string(debug.Stack())),
				)

				reply.Error(ctx, w, fmt.Errorf("recovered panic: %v", rec))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
