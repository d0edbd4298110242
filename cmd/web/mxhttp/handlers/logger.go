package handlers

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	RequestID contextValue = "request_id"
)

type contextValue string

func (cv contextValue) String() string {
	return string(cv)
}

// GetRequestID returns the ID that WithRequestLogger assigned to the request, or an empty string
func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(RequestID).(string)
	return rid
}

func WithRequestLogger(logger logrus.FieldLogger) Middleware {
	logger = logger.WithField("middleware", "request_logger")
	return func(handler http.Handler) http.Handler {
		var reqID atomic.Uint64
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writer := NewCustomResponseWriter(w)
			rid := strconv.FormatUint(reqID.Add(1), 10)

			logger := logger.WithFields(logrus.Fields{
				"request_id": rid,
				"method":     r.Method,
				"uri":        r.RequestURI,
			})

			r = r.WithContext(context.WithValue(r.Context(), RequestID, rid))

			logger.WithFields(logrus.Fields{
				"content_length": r.ContentLength,
			}).Debug("Request start")

			now := time.Now()
			defer func() {
				logger.WithFields(logrus.Fields{
					"time_µs":             time.Since(now).Microseconds(),
					"response_size_bytes": writer.BytesWritten,
					"http_status":         writer.Status,
				}).Debug("Request end")
			}()

			handler.ServeHTTP(writer, r)
		})
	}
}
