package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"go.uber.org/zap"
)

type contextKey string

const correlationIDContextKey contextKey = "correlationID"

// withCorrelationID tags every request with a correlation ID, reusing one
// supplied by the caller, and echoes it in the response headers.
func withCorrelationID(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := strings.TrimSpace(r.Header.Get(constants.CorrelationIDHeader))
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		w.Header().Set(constants.CorrelationIDHeader, correlationID)
		r = r.WithContext(context.WithValue(r.Context(), correlationIDContextKey, correlationID))

		logger.Debug("request received",
			zap.String("op", "server.withCorrelationID"),
			zap.String("correlationId", correlationID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)

		next.ServeHTTP(w, r)
	})
}

// correlationIDFromContext returns the request's correlation ID, or "".
func correlationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDContextKey).(string); ok {
		return id
	}
	return ""
}
