package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Dynom/mxprobe/cmd/web/config"
)

func TestGraphQL(t *testing.T) {
	a := newTestApp(t, config.Default())

	t.Run("validate", func(t *testing.T) {
		query := `{"query":"{ validate(emails: [\"ok@good.com\", \"x@bad.com\"]) { validCount invalidCount valid { email mxHost code } invalid { email kind code } } }"}`
		rec := postJSON(t, a.mux, "/graphql", query)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d (%s)", rec.Code, rec.Body.String())
		}

		var res struct {
			Data struct {
				Validate struct {
					ValidCount   int `json:"validCount"`
					InvalidCount int `json:"invalidCount"`
					Valid        []struct {
						Email  string `json:"email"`
						MXHost string `json:"mxHost"`
						Code   int    `json:"code"`
					} `json:"valid"`
					Invalid []struct {
						Email string `json:"email"`
						Kind  string `json:"kind"`
						Code  int    `json:"code"`
					} `json:"invalid"`
				} `json:"validate"`
			} `json:"data"`
			Errors []interface{} `json:"errors"`
		}

		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("Unable to decode the response %s", err)
		}

		if len(res.Errors) > 0 {
			t.Fatalf("Unexpected errors %+v", res.Errors)
		}

		v := res.Data.Validate
		if v.ValidCount != 1 || v.InvalidCount != 1 {
			t.Fatalf("Expected 1 valid and 1 invalid, got %+v", v)
		}

		if v.Valid[0].Email != "ok@good.com" || v.Valid[0].MXHost != "mx.good.com" || v.Valid[0].Code != 250 {
			t.Errorf("Unexpected valid result %+v", v.Valid[0])
		}

		if v.Invalid[0].Kind != "probe_protocol_rejected" || v.Invalid[0].Code != 550 {
			t.Errorf("Unexpected invalid result %+v", v.Invalid[0])
		}
	})

	t.Run("check", func(t *testing.T) {
		rec := postJSON(t, a.mux, "/graphql", `{"query":"{ check(email: \"ok@good.com\") { email valid kind } }"}`)

		var res struct {
			Data struct {
				Check struct {
					Email string `json:"email"`
					Valid bool   `json:"valid"`
					Kind  string `json:"kind"`
				} `json:"check"`
			} `json:"data"`
		}

		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("Unable to decode the response %s", err)
		}

		if !res.Data.Check.Valid || res.Data.Check.Kind != "none" {
			t.Errorf("Expected a valid result, got %+v", res.Data.Check)
		}
	})

	t.Run("empty address", func(t *testing.T) {
		rec := postJSON(t, a.mux, "/graphql", `{"query":"{ check(email: \"\") { valid } }"}`)

		var res struct {
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
		}

		_ = json.Unmarshal(rec.Body.Bytes(), &res)
		if len(res.Errors) != 1 || res.Errors[0].Message != "input is empty" {
			t.Errorf("Expected the service error, got %s", rec.Body.String())
		}
	})
}
