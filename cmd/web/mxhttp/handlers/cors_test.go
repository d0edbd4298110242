package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	testLog "github.com/sirupsen/logrus/hooks/test"
)

func TestWithCORS(t *testing.T) {
	logger, _ := testLog.NewNullLogger()

	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{name: "allowed origin", origins: []string{"https://mail.example.org"}, origin: "https://mail.example.org", wantHeader: "https://mail.example.org"},
		{name: "other origin", origins: []string{"https://mail.example.org"}, origin: "https://evil.example.org", wantHeader: ""},
		{name: "wildcard", origins: []string{"*"}, origin: "https://any.example.org", wantHeader: "*"},
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WithCORS(logger, tt.origins, []string{"Content-Type"})(ok)

			req := httptest.NewRequest(http.MethodPost, "/check", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Expected Access-Control-Allow-Origin %q, got %q", tt.wantHeader, got)
			}
		})
	}
}

func TestWithCORSNoOrigins(t *testing.T) {
	logger, hook := testLog.NewNullLogger()
	_ = WithCORS(logger, nil, nil)

	if le := hook.LastEntry(); le == nil {
		t.Errorf("Expected a log entry about refused cross-origin requests")
	}
}
