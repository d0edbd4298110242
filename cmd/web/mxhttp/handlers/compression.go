package handlers

import (
	"compress/gzip"
	"net/http"

	"github.com/NYTimes/gziphandler"
)

// gzipMinSize leaves responses that fit in a single packet, such as a single /check verdict, uncompressed
const gzipMinSize = 1500

// WithGzipHandler compresses responses for clients that accept gzip. It mostly pays off for /batch responses, which
// grow with the number of addresses.
func WithGzipHandler() Middleware {
	wrapper, err := gziphandler.GzipHandlerWithOpts(
		gziphandler.CompressionLevel(gzip.DefaultCompression),
		gziphandler.MinSize(gzipMinSize),
	)

	if err != nil {
		return func(h http.Handler) http.Handler {
			return h
		}
	}

	return wrapper
}
