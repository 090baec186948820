package middleware

import (
	"net/http"
	"runtime/debug"

	"equipment-inventory-api/pkg/api"

	"go.uber.org/zap"
)

// Recover turns a panic in a handler into a 500 envelope.
func (lm *LoggingMiddleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				lm.logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", RequestID(r.Context())),
					zap.ByteString("stack", debug.Stack()))
				api.Error(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR", nil)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
