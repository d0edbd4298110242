package handlers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestWithHeaders(t *testing.T) {
	cacheHeaders := http.Header{}
	cacheHeaders.Add("Cache-Control", "no-store")
	cacheHeaders.Add("Cache-Control", "private")

	serviceHeaders := http.Header{}
	serviceHeaders.Add("X-Powered-By", "mxprobe")

	tests := []struct {
		name    string
		headers http.Header
	}{
		{name: "repeated header", headers: cacheHeaders},
		{name: "single header", headers: serviceHeaders},
		{name: "none", headers: http.Header{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"email":"ok@good.com","valid":true}`))
			})

			req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(`{"email":"ok@good.com"}`))
			rec := httptest.NewRecorder()

			WithHeaders(tt.headers)(check).ServeHTTP(rec, req)

			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Errorf("Expected the handler's own header to survive, got %q", got)
			}

			got := http.Header{}
			for key := range tt.headers {
				for _, v := range rec.Header().Values(key) {
					got.Add(key, v)
				}
			}

			if !reflect.DeepEqual(got, tt.headers) {
				t.Errorf("WithHeaders() = %+v, want %+v", got, tt.headers)
			}
		})
	}
}

func Test_addHeaders(t *testing.T) {
	tests := []struct {
		name string
		dst  http.Header
		src  http.Header
		want http.Header
	}{
		{
			name: "adds to existing",
			dst:  http.Header{"Content-Type": {"application/json"}},
			src:  http.Header{"X-Powered-By": {"mxprobe"}},
			want: http.Header{"Content-Type": {"application/json"}, "X-Powered-By": {"mxprobe"}},
		},
		{
			name: "keeps duplicates",
			dst:  http.Header{"Vary": {"Accept-Encoding"}},
			src:  http.Header{"Vary": {"Origin"}},
			want: http.Header{"Vary": {"Accept-Encoding", "Origin"}},
		},
		{
			name: "empty source",
			dst:  http.Header{"Content-Type": {"application/json"}},
			src:  http.Header{},
			want: http.Header{"Content-Type": {"application/json"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addHeaders(tt.dst, tt.src)
			if !reflect.DeepEqual(tt.dst, tt.want) {
				t.Errorf("addHeaders() dst = %v, want %v", tt.dst, tt.want)
			}
		})
	}
}
