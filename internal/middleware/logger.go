// Package middleware contains http middlewares of the dashboard server.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"
	"github.com/tomasen/realip"
)

type loggerKey struct{}

// Logger puts a request scoped logger into the context and logs every served request.
// It should be installed after chi's RequestID middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		l := logrus.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"ip":         realip.FromRequest(r),
			"method":     r.Method,
			"path":       r.URL.Path,
		})

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerKey{}, l)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		l = l.WithFields(logrus.Fields{
			"status":   status,
			"duration": time.Since(start).String(),
		})

		if status >= http.StatusInternalServerError {
			l.Error("request failed")
			return
		}

		l.Debug("request served")
	})
}

// GetLogger returns the request scoped logger.
func GetLogger(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(loggerKey{}).(logrus.FieldLogger); ok {
		return l
	}

	return logrus.StandardLogger()
}

// BodyLimiter limits size of request bodies.
func BodyLimiter(size int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, size)
			}

			next.ServeHTTP(w, r)
		})
	}
}
