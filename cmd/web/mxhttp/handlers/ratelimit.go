package handlers

import (
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	logRateLimiterDisabled    = "rate limit: no bucket, rate limiting disabled"
	logRateLimitAboveMaxDelay = "rate limit: aborting request, above max allowed delay"
	logRateLimitThrottled     = "rate limit: throttling request, will continue after delay"
)

// TakeMaxDuration is implemented by *ratelimit.Bucket
type TakeMaxDuration interface {
	TakeMaxDuration(count int64, maxWait time.Duration) (time.Duration, bool)
}

// WithRateLimiter delays requests until a token is available, or rejects them when that takes longer than maxDelay
func WithRateLimiter(logger logrus.FieldLogger, b TakeMaxDuration, maxDelay time.Duration) Middleware {
	logger = logger.WithField("middleware", "rate_limiter")

	if b == nil || reflect.ValueOf(b).IsNil() {
		logger.Warn(logRateLimiterDisabled)
		return func(h http.Handler) http.Handler {
			return h
		}
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logger.WithFields(logrus.Fields{
				"remote_addr": r.RemoteAddr,
				"request_id":  GetRequestID(r.Context()),
				"max_delay":   maxDelay,
			})

			d, ok := b.TakeMaxDuration(1, maxDelay)
			if !ok {
				logger.Warn(logRateLimitAboveMaxDelay)

				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = fmt.Fprint(w, "Server busy, request aborted")
				return
			}

			if d > 0 {
				logger.WithField("delay", d).Warn(logRateLimitThrottled)

				select {
				case <-time.After(d):
				case <-r.Context().Done():
					return
				}
			}

			h.ServeHTTP(w, r)
		})
	}
}
