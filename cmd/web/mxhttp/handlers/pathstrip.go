package handlers

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// WithPathStrip removes a prefix from the request path, for when the service is mounted below a path by a proxy
// (e.g. "/mxprobe/check" is served as "/check"). Only whole path segments are stripped.
func WithPathStrip(logger logrus.FieldLogger, prefix string) Middleware {
	logger = logger.WithField("middleware", "path_strip")

	if prefix == "" {
		logger.Warn("Path strip is used without a prefix, requests are passed on unchanged")
		return func(h http.Handler) http.Handler {
			return h
		}
	}

	prefix = normalizeSlashes(logger, prefix)
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.URL.Path = stripPrefix(r.URL.Path, prefix)

			h.ServeHTTP(w, r)
		})
	}
}

func stripPrefix(path, prefix string) string {
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok || (rest != "" && rest[0] != '/') {
		return path
	}

	if rest == "" {
		return "/"
	}

	return rest
}

// normalizeSlashes makes sure the prefix starts with a `/` and doesn't end with one
func normalizeSlashes(logger logrus.FieldLogger, prefix string) string {
	if !strings.HasPrefix(prefix, `/`) {
		logger.WithFields(logrus.Fields{
			"from": prefix,
			"to":   `/` + prefix,
		}).Warn("The path strip prefix doesn't start with a `/`, correcting it")
		prefix = `/` + prefix
	}

	if trimmed := strings.TrimRight(prefix, `/`); trimmed != prefix {
		logger.WithFields(logrus.Fields{
			"from": prefix,
			"to":   trimmed,
		}).Warn("The path strip prefix ends with a `/`, correcting it")
		prefix = trimmed
	}

	return prefix
}
