package middleware

import (
	"context"
	"net/http"
	"time"

	"pet-health-chat/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestIDFrom expone el id que setea chimw.RequestID (vacío si no corrió).
func RequestIDFrom(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// RequestLog loguea una línea por request con status y duración.
// Debe ir después de chimw.RequestID.
func RequestLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"request_id":  RequestIDFrom(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if status >= http.StatusInternalServerError {
				log.Warn("request failed", fields)
				return
			}
			log.Info("request", fields)
		})
	}
}
