package reply_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"mortgage_deals/pkg/errcodes"
	"mortgage_deals/pkg/httpx/reply"
)

func TestError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		statusCode int
		code       string
	}{
		{
			name: "Invalid argument keeps its code",
			err: fmt.Errorf("parseDealQuery: %w", failure.NewInvalidArgumentError(
				"maxRate: not a number",
				failure.WithCode(errcodes.InvalidFilter),
				failure.WithDescription("maxRate must be a number"),
			)),
			statusCode: http.StatusBadRequest,
			code:       errcodes.InvalidFilter.String(),
		},
		{
			name:       "Unknown error is internal",
			err:        errors.New("connection reset"),
			statusCode: http.StatusInternalServerError,
			code:       errcodes.InternalServerError.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			w := httptest.NewRecorder()

			reply.Error(context.Background(), w, tc.err)

			rq.Equal(tc.statusCode, w.Code)
			rq.Contains(w.Body.String(), `"code":"`+tc.code+`"`)
			rq.Contains(w.Body.String(), `"supportId":"unsupported"`)
		})
	}
}
