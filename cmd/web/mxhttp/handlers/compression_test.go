package handlers

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// batchBody builds a /batch-like response body with n rejected addresses
func batchBody(t *testing.T, n int) string {
	t.Helper()

	type item struct {
		Email string `json:"email"`
		Valid bool   `json:"valid"`
		Kind  string `json:"kind"`
	}

	var invalid []item
	for i := 0; i < n; i++ {
		invalid = append(invalid, item{Email: fmt.Sprintf("user%d@no-mx.com", i), Kind: "no_mail_exchange_found"})
	}

	b, err := json.Marshal(map[string]interface{}{"valid": []item{}, "invalid": invalid})
	if err != nil {
		t.Fatalf("json.Marshal() Setting up the test failed %s", err)
	}

	return string(b)
}

func TestWithGzipHandler(t *testing.T) {
	large := batchBody(t, 100)
	small := batchBody(t, 1)

	if len(large) <= gzipMinSize || len(small) >= gzipMinSize {
		t.Fatalf("Test bodies don't straddle the minimum size, %d and %d", len(large), len(small))
	}

	tests := []struct {
		name               string
		use                Middleware
		acceptEncoding     string
		body               string
		wantVary           bool
		wantCompressedBody bool
	}{
		{name: "large batch", use: WithGzipHandler(), acceptEncoding: "gzip", body: large, wantVary: true, wantCompressedBody: true},
		{name: "single verdict", use: WithGzipHandler(), acceptEncoding: "gzip", body: small, wantVary: true},
		{name: "client without gzip", use: WithGzipHandler(), body: large, wantVary: true},
		{
			name:           "without middleware",
			use:            func(h http.Handler) http.Handler { return h },
			acceptEncoding: "gzip",
			body:           large,
		},
	}

	// Implicit decompression is disabled, so compressed bodies come back as they were sent
	c := http.Client{
		Transport: &http.Transport{
			DisableCompression: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.use(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			})))
			defer server.Close()

			request, err := http.NewRequest(http.MethodPost, server.URL+"/batch", strings.NewReader(`{"emails":[]}`))
			if err != nil {
				t.Fatalf("http.NewRequest() Setting up the test failed %s", err)
			}

			if tt.acceptEncoding != "" {
				request.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			res, err := c.Do(request)
			if err != nil {
				t.Fatalf("c.Do(request) Setting up the test failed %s", err)
			}
			defer res.Body.Close()

			if gotVary := res.Header.Get("Vary") != ""; gotVary != tt.wantVary {
				t.Errorf("Expected a Vary header to be %t, got %q", tt.wantVary, res.Header.Get("Vary"))
			}

			var body io.Reader = res.Body
			if gotCompressed := res.Header.Get("Content-Encoding") == "gzip"; gotCompressed != tt.wantCompressedBody {
				t.Fatalf("Expected a compressed body to be %t, got Content-Encoding %q", tt.wantCompressedBody, res.Header.Get("Content-Encoding"))
			}

			if tt.wantCompressedBody {
				zr, err := gzip.NewReader(res.Body)
				if err != nil {
					t.Fatalf("gzip.NewReader() %s", err)
				}
				body = zr
			}

			b, err := io.ReadAll(body)
			if err != nil {
				t.Fatalf("io.ReadAll() %s", err)
			}

			if string(b) != tt.body {
				t.Errorf("Expected the batch response to survive (de)compression, got %d bytes, want %d", len(b), len(tt.body))
			}
		})
	}
}
