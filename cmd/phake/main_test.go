package main

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dynom/mxprobe/cmd/web/mxhttp"
	"github.com/Dynom/mxprobe/types"
)

func Test_newEmailAddress(t *testing.T) {
	t.Run("fixed domain", func(t *testing.T) {
		parts, err := types.NewEmailParts(newEmailAddress(16, "example.test"))
		if err != nil {
			t.Fatalf("Expected a well-formed address, got %s", err)
		}

		if len(parts.Local) != 16 || parts.Domain != "example.test" {
			t.Errorf("Unexpected address %+v", parts)
		}
	})

	t.Run("generated domain", func(t *testing.T) {
		parts, err := types.NewEmailParts(newEmailAddress(8, ""))
		if err != nil {
			t.Fatalf("Expected a well-formed address, got %s", err)
		}

		if !strings.HasSuffix(parts.Domain, ".test") {
			t.Errorf("Expected a .test domain, got %q", parts.Domain)
		}
	})
}

func Test_wrapInJSON(t *testing.T) {
	var target struct {
		Method string `json:"method"`
		URL    string `json:"url"`
		Body   string `json:"body"`
	}

	if err := json.Unmarshal([]byte(wrapInJSON("http://localhost:1338", "john@example.test")), &target); err != nil {
		t.Fatalf("Expected valid JSON, got %s", err)
	}

	body, _ := base64.StdEncoding.DecodeString(target.Body)

	var req mxhttp.CheckRequest
	if err := json.Unmarshal(body, &req); err != nil || req.Email != "john@example.test" {
		t.Errorf("Expected a check request in the body, got %q (%v)", body, err)
	}

	if target.URL != "http://localhost:1338/check" {
		t.Errorf("Unexpected URL %q", target.URL)
	}
}

func Test_generateAndSendBatches(t *testing.T) {
	var sizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req mxhttp.BatchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sizes = append(sizes, len(req.Emails))

		_ = json.NewEncoder(w).Encode(mxhttp.BatchResponse{InvalidCount: len(req.Emails)})
	}))
	defer srv.Close()

	stats, err := generateAndSendBatches(io.Discard, srv.Client(), 5, 2, "example.test", srv.URL)
	if err != nil {
		t.Fatalf("Unexpected error %s", err)
	}

	if len(sizes) != 3 || sizes[0] != 2 || sizes[2] != 1 {
		t.Errorf("Expected batches of 2, 2 and 1, got %v", sizes)
	}

	if stats.InvalidCount != 5 {
		t.Errorf("Expected 5 invalid addresses in total, got %d", stats.InvalidCount)
	}
}
