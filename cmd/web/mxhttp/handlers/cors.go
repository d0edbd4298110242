package handlers

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// WithCORS answers preflight requests and adds the CORS headers for the allowed origins. Without origins, CORS
// requests aren't allowed.
func WithCORS(logger logrus.FieldLogger, allowedOrigins, allowedHeaders []string) Middleware {
	if len(allowedOrigins) == 0 {
		logger.WithField("middleware", "cors").Info("No allowed origins configured, cross-origin requests are refused")
		return func(h http.Handler) http.Handler {
			return h
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedHeaders: allowedHeaders,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	return c.Handler
}
